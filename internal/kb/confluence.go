package kb

import (
	"bytes"

	"github.com/semithue/kbrw/internal/word"
)

// Confluent reports whether the current rule set is confluent, i.e.
// whether every word has a unique normal form regardless of rule
// application order. The answer is cached until the rule set changes.
//
// CONFLUENT from Sims p. 62: every critical pair of every ordered pair
// of active rules is resolved both ways and the two normal forms
// compared. This is the dominant O(active² × rule length) cost of
// completion, which is why the driver only calls it every
// checkInterval overlaps.
func (s *System) Confluent() bool {
	conf, _ := s.confluent(neverStop)
	return conf
}

// confluent is the cancellable check. When stop fires mid-scan the
// result is unknown: the cache is left invalidated and the stop cause
// returned, never a false positive or negative.
func (s *System) confluent(stop stopFn) (bool, error) {
	if s.stack.len() > 0 {
		// An unprocessed candidate means the system cannot be asserted
		// confluent yet, whatever the active rules say.
		return false, nil
	}
	if s.confluenceKnown {
		return s.isConfluent, nil
	}

	for _, hu := range s.store.active {
		for _, hv := range s.store.active {
			if err := stop(); err != nil {
				return false, err
			}
			u := s.store.rule(hu)
			v := s.store.rule(hv)
			ok, err := s.criticalPairsJoinable(u, v, stop)
			if err != nil {
				return false, err
			}
			if !ok {
				s.confluenceKnown = true
				s.isConfluent = false
				return false, nil
			}
		}
	}
	s.confluenceKnown = true
	s.isConfluent = true
	return true, nil
}

// criticalPairsJoinable resolves every overlap of suffixes of lhs(u)
// with prefixes of lhs(v), including lhs(v) occurring as a factor
// inside lhs(u), and reports whether both rewrites of each overlap
// word reach the same normal form.
func (s *System) criticalPairsJoinable(u, v *rule, stop stopFn) (bool, error) {
	for k := 1; k <= len(u.lhs); k++ {
		if err := stop(); err != nil {
			return false, err
		}
		b := u.lhs[len(u.lhs)-k:]
		n := min(k, len(v.lhs))
		if !bytes.Equal(b[:n], v.lhs[:n]) {
			continue
		}
		// One left side ran out inside the other: an overlap word
		// exists and rewrites two ways.
		var p, q word.Word
		if k <= len(v.lhs) {
			// lhs(u) = A·B, lhs(v) = B·C: the word A·B·C.
			p = word.Concat(u.lhs[:len(u.lhs)-k], v.rhs) // A·rhs(v)
			q = word.Concat(u.rhs, v.lhs[k:])            // rhs(u)·C
		} else {
			// lhs(v) is a factor of lhs(u) = A·lhs(v)·D: the word
			// lhs(u) itself.
			a := u.lhs[:len(u.lhs)-k]
			d := u.lhs[len(u.lhs)-k+len(v.lhs):]
			p = word.Concat(word.Concat(a, v.rhs), d) // A·rhs(v)·D
			q = word.Clone(u.rhs)                     // rhs(u)
		}
		if !word.Equal(s.rewriteInPlace(p), s.rewriteInPlace(q)) {
			return false, nil
		}
	}
	return true, nil
}
