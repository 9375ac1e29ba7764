// Package kb implements Knuth-Bendix completion for string rewriting
// systems presented by generators and relations.
//
// A System owns a set of rewriting rules ordered by the shortlex
// reduction order. Completion repeatedly resolves critical pairs
// (overlaps between rule left-hand sides) until the system is
// confluent, at which point Rewrite computes canonical normal forms
// and EqualTo decides the word problem.
//
// Completion is not guaranteed to terminate for arbitrary
// presentations. Long-running entry points take a context.Context and
// poll it cooperatively, at minimum once per overlap pair and once per
// pending-stack pop, so callers can bound work with a deadline. Hitting
// a limit is not an error: the system stays sound for rewriting, it
// just may not be confluent yet.
//
// A System is not safe for concurrent use. All mutation (AddRule, Run,
// EqualTo) must come from a single goroutine; Rewrite is read-only and
// may be called freely between mutating calls.
package kb
