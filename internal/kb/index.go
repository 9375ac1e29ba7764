package kb

import (
	"fmt"
	"sort"

	"github.com/semithue/kbrw/internal/word"
)

// suffixIndex is the ordered index over active rules' left-hand sides
// used by the rewriting engine to find the rule matching the suffix of
// the copied prefix.
//
// Entries are ordered by the reverse of the left-hand side. The
// comparison treats two words as equal when one is a suffix of the
// other, so a lookup with the whole copied prefix lands exactly on the
// rule whose left side is a suffix of it. This only works because the
// driver keeps the active set fully interreduced: no active left-hand
// side is a factor of another, hence no two entries compare equal and
// at most one rule can match any window.
type suffixIndex struct {
	store   *ruleStore
	entries []handle // sorted by cmpSuffix on the rules' left sides
}

// cmpSuffix compares a and b from their last letters backwards.
// Returns 0 when one word is a suffix of the other, otherwise the sign
// of the first mismatching letter pair.
func cmpSuffix(a, b word.Word) int {
	i, j := len(a)-1, len(b)-1
	for i >= 0 && j >= 0 {
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i--
		j--
	}
	return 0
}

// search returns the position of the first entry whose left side does
// not compare below w, exactly as sort.Search over cmpSuffix.
func (x *suffixIndex) search(w word.Word) int {
	return sort.Search(len(x.entries), func(i int) bool {
		return cmpSuffix(x.store.rule(x.entries[i]).lhs, w) >= 0
	})
}

// insert registers the rule's left side. Returns false without
// inserting when an entry compares equal to it: the caller must not
// activate the rule and should requeue it as a pending candidate,
// because an equal entry means the rule set is not irredundant yet.
func (x *suffixIndex) insert(h handle) bool {
	lhs := x.store.rule(h).lhs
	i := x.search(lhs)
	if i < len(x.entries) && cmpSuffix(x.store.rule(x.entries[i]).lhs, lhs) == 0 {
		return false
	}
	x.entries = append(x.entries, 0)
	copy(x.entries[i+1:], x.entries[i:])
	x.entries[i] = h
	return true
}

// remove unregisters the rule. A missing entry is an invariant
// violation: every active rule has exactly one entry, and rules are
// removed from the index before deactivation.
func (x *suffixIndex) remove(h handle) {
	lhs := x.store.rule(h).lhs
	i := x.search(lhs)
	if i >= len(x.entries) || x.entries[i] != h {
		panic(fmt.Sprintf("suffix index entry missing for rule %d", x.store.rule(h).id))
	}
	x.entries = append(x.entries[:i], x.entries[i+1:]...)
}

// findSuffix returns the active rule whose left-hand side is a suffix
// of window, if any. The window is the prefix of the word copied so far
// by the rewriting engine, ending at the write cursor.
func (x *suffixIndex) findSuffix(window word.Word) (handle, bool) {
	i := x.search(window)
	if i >= len(x.entries) {
		return 0, false
	}
	h := x.entries[i]
	lhs := x.store.rule(h).lhs
	// cmpSuffix == 0 also matches an entry *longer* than the window;
	// only a left side no longer than the window is a real match.
	if len(lhs) <= len(window) && cmpSuffix(lhs, window) == 0 {
		return h, true
	}
	return 0, false
}

// size returns the number of entries, which must always equal the
// number of active rules.
func (x *suffixIndex) size() int {
	return len(x.entries)
}
