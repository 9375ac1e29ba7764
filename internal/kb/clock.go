package kb

import "sync/atomic"

// clock is the monotonic logical clock that issues rule ids.
//
// Every rule ever created is stamped with a strictly increasing id,
// including rules recycled from the free pool, so "has this rule
// changed since I last looked at it" reduces to an id comparison. The
// overlap loop relies on this to detect rules rewritten or deactivated
// out from under it mid-scan.
type clock struct {
	seq atomic.Int64
}

// next returns the next id. Ids start at 1; 0 means "never assigned".
func (c *clock) next() int64 {
	return c.seq.Add(1)
}

// current returns the most recently issued id without advancing.
func (c *clock) current() int64 {
	return c.seq.Load()
}
