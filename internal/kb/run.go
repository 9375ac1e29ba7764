package kb

import (
	"context"
	"errors"

	"github.com/semithue/kbrw/internal/word"
)

// stopFn is the cooperative cancellation predicate threaded through
// every long-running loop. It returns nil to keep going, or the stop
// cause. The engine polls it at minimum once per overlap pair and once
// per pending-stack pop.
type stopFn func() error

// neverStop is the predicate for entry points that cannot be
// interrupted, such as draining a single relation in AddRule.
func neverStop() error { return nil }

// errPredicateStop marks a RunUntil predicate firing. It is a normal
// outcome, not an error, and never escapes the package.
var errPredicateStop = errors.New("kb: run-until predicate satisfied")

func ctxStop(ctx context.Context) stopFn {
	return func() error { return ctx.Err() }
}

func predStop(ctx context.Context, pred func() bool) stopFn {
	return func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if pred() {
			return errPredicateStop
		}
		return nil
	}
}

// Run drives Knuth-Bendix completion until the system is confluent, a
// configured limit is hit, or ctx is done. Returns whether the system
// finished confluent; the only error is the context's, and even then
// the system remains sound for rewriting.
//
// This may never terminate for presentations whose word problem has no
// finite confluent system under the chosen order. Bound it with a
// context deadline or WithMaxRules.
func (s *System) Run(ctx context.Context) (bool, error) {
	return s.run(ctxStop(ctx))
}

// RunUntil is Run, additionally stopping as soon as pred reports true.
// The predicate is polled with the same cadence as cancellation.
func (s *System) RunUntil(ctx context.Context, pred func() bool) (bool, error) {
	conf, err := s.run(predStop(ctx, pred))
	if errors.Is(err, errPredicateStop) {
		return conf, nil
	}
	return conf, err
}

// RunByOverlapLength is the iterative-deepening variant: the maximum
// overlap cost is set to 1, 2, 3, ... with a full completion pass after
// each increment, until the system is confluent or ctx is done. Cheap
// overlaps are redone every round, which is the pragmatic trade for
// presentations where the unbounded search explodes early.
//
// The configured max overlap is restored afterwards.
func (s *System) RunByOverlapLength(ctx context.Context) (bool, error) {
	saved := s.maxOverlap
	defer func() { s.maxOverlap = saved }()

	stop := ctxStop(ctx)
	log := s.logger.With("run", s.tokens())

	for n := 1; ; n++ {
		s.maxOverlap = n
		log.Debug("deepening overlap bound", "max_overlap", n)
		conf, err := s.knuthBendix(stop)
		if err != nil {
			log.Info("completion stopped", "cause", err, "active_rules", s.store.numActive())
			return false, err
		}
		if conf {
			log.Info("completion finished confluent",
				"max_overlap", n,
				"active_rules", s.store.numActive(),
				"total_rules", s.store.created,
			)
			return true, nil
		}
	}
}

// run wraps one knuthBendix invocation with a run token and start and
// finish log lines.
func (s *System) run(stop stopFn) (bool, error) {
	prev := s.logger
	s.logger = s.logger.With("run", s.tokens())
	defer func() { s.logger = prev }()

	s.logger.Info("knuth-bendix started", "active_rules", s.store.numActive())
	conf, err := s.knuthBendix(stop)
	switch {
	case err != nil:
		s.logger.Info("knuth-bendix stopped", "cause", err, "active_rules", s.store.numActive())
	case conf:
		s.logger.Info("knuth-bendix finished confluent",
			"active_rules", s.store.numActive(),
			"total_rules", s.store.created,
		)
	default:
		s.logger.Info("knuth-bendix hit rule limit",
			"active_rules", s.store.numActive(),
			"max_rules", s.maxRules,
		)
	}
	return conf, err
}

// knuthBendix is KBS_2 from Sims pp. 77-78: interreduce the active set,
// then sweep rule pairs generating and resolving overlaps, checking
// confluence every checkInterval overlaps.
func (s *System) knuthBendix(stop stopFn) (bool, error) {
	if conf, err := s.confluent(stop); err != nil {
		return false, err
	} else if conf {
		return true, nil
	}

	// Interreduce: requeue every rule currently active so the sweep
	// starts from a fully self-reduced set. Handles are snapshotted
	// with their ids; a drain can deactivate, recycle and even reuse a
	// slot before we reach it, and a stale pair is simply skipped.
	type snap struct {
		h  handle
		id int64
	}
	snaps := make([]snap, 0, s.store.numActive())
	for _, h := range s.store.active {
		snaps = append(snaps, snap{h: h, id: s.store.rule(h).id})
	}
	for _, sn := range snaps {
		r := s.store.rule(sn.h)
		if r.id != sn.id || !r.active {
			continue
		}
		s.stack.push(word.Clone(r.lhs), word.Clone(r.rhs))
		s.deactivate(sn.h)
		s.store.recycle(sn.h)
		if err := s.clearStack(stop); err != nil {
			return false, err
		}
	}

	// Overlap sweep. The cursor walks the active list in insertion
	// order; deactivations behind it re-point it (see deactivate), and
	// it advances only while the rule under it survives its own
	// overlaps.
	s.sweeping = true
	defer func() { s.sweeping = false }()
	s.cursor = 0
	overlapsSinceCheck := 0

	for s.cursor < len(s.store.active) {
		if err := stop(); err != nil {
			return false, err
		}
		if s.store.numActive() >= s.maxRules {
			// Rule limit hit: not confluent, but usable.
			return false, nil
		}

		hu := s.store.active[s.cursor]
		idU := s.store.rule(hu).id
		if err := s.overlap(hu, hu, stop); err != nil {
			return false, err
		}
		overlapsSinceCheck++

		// Walk backward over the already-visited rules. The list
		// mutates underneath: clamp the position and re-check liveness
		// rather than trusting a snapshot.
		for j := s.cursor - 1; j >= 0; j-- {
			if j >= len(s.store.active) {
				j = len(s.store.active)
				continue
			}
			if u := s.store.rule(hu); u.id != idU || !u.active {
				break
			}
			hv := s.store.active[j]
			idV := s.store.rule(hv).id
			if err := s.overlap(hu, hv, stop); err != nil {
				return false, err
			}
			overlapsSinceCheck++
			u, v := s.store.rule(hu), s.store.rule(hv)
			if u.id == idU && u.active && v.id == idV && v.active {
				if err := s.overlap(hv, hu, stop); err != nil {
					return false, err
				}
				overlapsSinceCheck++
			}
		}

		if overlapsSinceCheck > s.checkInterval {
			overlapsSinceCheck = 0
			conf, err := s.confluent(stop)
			if err != nil {
				return false, err
			}
			if conf {
				break
			}
		}

		if s.cursor < len(s.store.active) && s.store.active[s.cursor] == hu {
			if u := s.store.rule(hu); u.id == idU && u.active {
				s.cursor++
			}
		}
	}

	conf, err := s.confluent(stop)
	if err != nil {
		return false, err
	}
	if conf {
		s.store.compress()
	}
	return conf, nil
}

// EqualTo reports whether u and v represent the same element of the
// presented semigroup. If their normal forms under the current system
// already agree the answer is immediate; otherwise completion is run to
// convergence subject to the configured limits and the comparison
// retried. When a limit stops completion first, equal words can be
// reported unequal; the answer is only authoritative once Confluent()
// is true.
func (s *System) EqualTo(ctx context.Context, u, v string) (bool, error) {
	wu, err := s.alphabet.Encode(u)
	if err != nil {
		return false, err
	}
	wv, err := s.alphabet.Encode(v)
	if err != nil {
		return false, err
	}
	if word.Equal(s.rewriteInPlace(wu), s.rewriteInPlace(wv)) {
		return true, nil
	}
	if s.stack.len() == 0 && s.confluenceKnown && s.isConfluent {
		return false, nil
	}
	if _, err := s.Run(ctx); err != nil {
		return false, err
	}
	nu, err := s.Rewrite(u)
	if err != nil {
		return false, err
	}
	nv, err := s.Rewrite(v)
	if err != nil {
		return false, err
	}
	return nu == nv, nil
}
