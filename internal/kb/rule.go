package kb

import (
	"fmt"

	"github.com/semithue/kbrw/internal/word"
)

// handle identifies a rule slot in the store's arena. Handles are
// stable for the lifetime of the System; the slot behind a handle is
// reused after recycle, which is why callers must re-check the rule's
// id before trusting anything read through an old handle.
type handle int

// rule is an ordered pair of internal words with lhs strictly greater
// than rhs under shortlex. Rules are owned exclusively by the store;
// every other component holds handles, never long-lived references.
type rule struct {
	lhs, rhs word.Word

	// id magnitudes are unique across every rule ever created,
	// including recycled slots. active mirrors membership in the
	// store's active list and the suffix index.
	id     int64
	active bool
}

// ruleStore is an index-stable arena of rule slots with a free list.
//
// Deactivated rules keep their words readable until recycled; recycled
// slots are reused by create, which reassigns a fresh id. Slots are
// destroyed only when the whole System is dropped.
type ruleStore struct {
	slots []rule
	free  []handle

	// active holds handles of active rules in insertion order. The
	// completion driver's cursor walks this slice, so removal has to
	// tell the driver which position vanished (see System.deactivate).
	active []handle

	ids     clock
	created int // total rules ever created, for reporting
}

// create allocates or recycles a rule slot for lhs -> rhs and stamps it
// with a fresh id. The rule is not active.
func (s *ruleStore) create(lhs, rhs word.Word) handle {
	s.created++
	var h handle
	if n := len(s.free); n > 0 {
		h = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, rule{})
		h = handle(len(s.slots) - 1)
	}
	s.slots[h] = rule{lhs: lhs, rhs: rhs, id: s.ids.next()}
	return h
}

// rule resolves a handle. The returned pointer is valid only until the
// next store mutation; do not hold it across create/recycle.
func (s *ruleStore) rule(h handle) *rule {
	return &s.slots[h]
}

// activate flags the rule as participating and appends it to the active
// list. The caller (System) is responsible for inserting the suffix
// index entry in the same step.
func (s *ruleStore) activate(h handle) {
	r := &s.slots[h]
	if r.active {
		panic(fmt.Sprintf("rule %d already active", r.id))
	}
	r.active = true
	s.active = append(s.active, h)
}

// deactivate removes the rule from the active list and returns the
// position it occupied, so the driver can re-point its cursor. The
// rule's words stay readable until recycle.
func (s *ruleStore) deactivate(h handle) int {
	r := &s.slots[h]
	if !r.active {
		panic(fmt.Sprintf("rule %d not active", r.id))
	}
	r.active = false
	for i, a := range s.active {
		if a == h {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return i
		}
	}
	panic(fmt.Sprintf("active rule %d missing from active list", r.id))
}

// recycle returns a deactivated rule slot to the free pool.
func (s *ruleStore) recycle(h handle) {
	if s.slots[h].active {
		panic("recycle of an active rule")
	}
	s.slots[h] = rule{}
	s.free = append(s.free, h)
}

// compress drops the word buffers of every inactive slot. Handles stay
// valid; this only trims memory after completion finishes.
func (s *ruleStore) compress() {
	for i := range s.slots {
		if !s.slots[i].active && s.slots[i].id != 0 {
			s.slots[i].lhs = nil
			s.slots[i].rhs = nil
		}
	}
}

// numActive returns the number of active rules.
func (s *ruleStore) numActive() int {
	return len(s.active)
}
