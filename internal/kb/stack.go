package kb

import "github.com/semithue/kbrw/internal/word"

// candidate is a not-yet-oriented rule awaiting interreduction. Both
// words are owned by the stack entry (always cloned on push).
type candidate struct {
	lhs, rhs word.Word
}

// pendingStack is the LIFO of candidate rules produced by overlap
// resolution and interreduction. It is unbounded: a single resolved
// critical pair can invalidate arbitrarily many active rules, all of
// which get requeued here, and the stack is fully drained before the
// overlap search resumes.
type pendingStack struct {
	items []candidate
}

func (p *pendingStack) push(lhs, rhs word.Word) {
	p.items = append(p.items, candidate{lhs: lhs, rhs: rhs})
}

func (p *pendingStack) pop() candidate {
	n := len(p.items) - 1
	c := p.items[n]
	// Nil out the slot so the popped words do not pin the backing
	// array's memory across a long completion run.
	p.items[n] = candidate{}
	p.items = p.items[:n]
	return c
}

func (p *pendingStack) len() int {
	return len(p.items)
}
