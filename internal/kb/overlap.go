package kb

import (
	"bytes"
	"fmt"

	"github.com/semithue/kbrw/internal/word"
)

// OverlapPolicy selects how the cost of an overlap between two left
// sides AB and BC is measured when the search is bounded by
// WithMaxOverlap. There are exactly three policies, so this is a plain
// enum matched at the call site.
type OverlapPolicy int

const (
	// PolicyABC measures |A| + |BC|: the non-overlapping prefix of the
	// first rule plus the whole second left side. The default.
	PolicyABC OverlapPolicy = iota
	// PolicyABBC measures |AB| + |BC|.
	PolicyABBC
	// PolicyMaxABBC measures max(|AB|, |BC|).
	PolicyMaxABBC
)

// String implements fmt.Stringer.
func (p OverlapPolicy) String() string {
	switch p {
	case PolicyABC:
		return "ABC"
	case PolicyABBC:
		return "AB_BC"
	case PolicyMaxABBC:
		return "MAX_AB_BC"
	default:
		return fmt.Sprintf("OverlapPolicy(%d)", int(p))
	}
}

// ParseOverlapPolicy converts the wire/CLI spelling of a policy.
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch s {
	case "ABC":
		return PolicyABC, nil
	case "AB_BC":
		return PolicyABBC, nil
	case "MAX_AB_BC":
		return PolicyMaxABBC, nil
	default:
		return 0, fmt.Errorf("unknown overlap policy %q (want ABC, AB_BC or MAX_AB_BC)", s)
	}
}

// overlapCost returns the configured cost of overlapping a suffix of
// length k of a left side of length lenU with a left side of length
// lenV.
func (s *System) overlapCost(lenU, lenV, k int) int {
	switch s.policy {
	case PolicyABBC:
		return lenU + lenV
	case PolicyMaxABBC:
		return max(lenU, lenV)
	default: // PolicyABC
		return (lenU - k) + lenV
	}
}

// overlap enumerates the overlaps between the left sides of the rules
// behind hu and hv: every proper suffix B of lhs(u) that is a prefix of
// lhs(v) yields the critical pair A·rhs(v) vs rhs(u)·C, where
// lhs(u) = A·B and lhs(v) = B·C. Each candidate is pushed and the
// pending stack drained before the next overlap position is tried.
//
// OVERLAP_2 from Sims p. 77, with one Go-specific change: processing a
// candidate can deactivate or recycle either rule mid-loop, so instead
// of trusting pointers the loop re-resolves both handles each step and
// aborts as soon as either id no longer matches the ones captured at
// entry.
func (s *System) overlap(hu, hv handle, stop stopFn) error {
	idU := s.store.rule(hu).id
	idV := s.store.rule(hv).id
	m := min(len(s.store.rule(hu).lhs), len(s.store.rule(hv).lhs)) - 1

	for k := m; k >= 1; k-- {
		if err := stop(); err != nil {
			return err
		}
		u := s.store.rule(hu)
		v := s.store.rule(hv)
		if u.id != idU || v.id != idV || !u.active || !v.active {
			return nil
		}
		s.stats.Overlaps++
		if s.overlapCost(len(u.lhs), len(v.lhs), k) > s.maxOverlap {
			continue
		}
		b := u.lhs[len(u.lhs)-k:]
		if !bytes.HasPrefix(v.lhs, b) {
			continue
		}
		// lhs(u) = A·B, lhs(v) = B·C. The overlap word A·B·C rewrites
		// two ways; the candidate equates them.
		lhs := word.Concat(u.lhs[:len(u.lhs)-k], v.rhs) // A·rhs(v)
		rhs := word.Concat(u.rhs, v.lhs[k:])            // rhs(u)·C
		s.stack.push(lhs, rhs)
		if err := s.clearStack(stop); err != nil {
			return err
		}
	}
	return nil
}

// clearStack drains the pending stack, interreducing the active set
// around each surviving candidate. TEST_2 from Sims p. 76.
//
// For each popped candidate: both sides are rewritten against the
// current rules and reoriented under shortlex. If they stay distinct,
// every active rule whose left side contains the candidate's left side
// as a factor is requeued (it is reducible by the newcomer and must be
// regenerated), the candidate is activated, and surviving rules whose
// right side contains the new left side get that side rewritten. If the
// index refuses the candidate, it is requeued instead of activated.
//
// The stop check sits at the pop, so each candidate is applied
// atomically: cancellation can abort the drain between candidates but
// never leave one half-applied.
func (s *System) clearStack(stop stopFn) error {
	for s.stack.len() > 0 {
		if err := stop(); err != nil {
			return err
		}
		cand := s.stack.pop()
		s.stats.StackPops++
		s.reportProgress()

		lhs := s.rewriteInPlace(cand.lhs)
		rhs := s.rewriteInPlace(cand.rhs)
		switch word.Compare(lhs, rhs) {
		case 0:
			// Joinable; the candidate holds no new information.
			continue
		case -1:
			lhs, rhs = rhs, lhs
		}

		// Requeue every active rule the newcomer reduces the left side
		// of. Walk by position: deactivation removes the current slot,
		// so the index only advances on keep.
		for i := 0; i < len(s.store.active); {
			h := s.store.active[i]
			r := s.store.rule(h)
			if bytes.Contains(r.lhs, lhs) {
				s.stack.push(word.Clone(r.lhs), word.Clone(r.rhs))
				s.deactivate(h)
				s.store.recycle(h)
				continue
			}
			i++
		}

		h := s.store.create(lhs, rhs)
		if !s.activate(h) {
			// An active left side is suffix-related to lhs, so the set
			// as given is not irredundant; requeue for another pass.
			s.stack.push(lhs, rhs)
			s.store.recycle(h)
			continue
		}

		// Right sides reducible by the newcomer get rewritten now that
		// it participates.
		for _, h2 := range s.store.active {
			if h2 == h {
				continue
			}
			r := s.store.rule(h2)
			if bytes.Contains(r.rhs, lhs) {
				r.rhs = s.rewriteInPlace(r.rhs)
			}
		}
	}
	return nil
}

// reportProgress logs rule counts every reportInterval stack pops.
func (s *System) reportProgress() {
	if s.reportInterval <= 0 || s.reportInterval == Unlimited || s.stats.StackPops%s.reportInterval != 0 {
		return
	}
	s.logger.Debug("completion progress",
		"total_rules", s.store.created,
		"active_rules", s.store.numActive(),
		"pending", s.stack.len(),
	)
}
