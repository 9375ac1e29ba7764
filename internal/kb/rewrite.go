package kb

import "github.com/semithue/kbrw/internal/word"

// rewriteInPlace reduces w to normal form with respect to the current
// active rule set and returns the (shorter or equal) reduced slice,
// which aliases w's backing array.
//
// This is REWRITE_FROM_LEFT (Sims p. 67) driven by the suffix index: a
// write cursor and a read cursor share the buffer; after each letter is
// copied the suffix of the written prefix is probed against the index,
// and on a match the matched left side is cut from the written prefix
// while the rule's right side is spliced back in front of the read
// cursor. Any factor match that is not a suffix of the written prefix
// is found later, when that region becomes the suffix.
//
// Rules never grow a word (|rhs| <= |lhs| under shortlex), so the
// splice always fits in the gap between the two cursors and the buffer
// never reallocates. Terminates because every substitution strictly
// decreases the word under the reduction order.
func (s *System) rewriteInPlace(w word.Word) word.Word {
	// Words shorter than every active left side cannot match at all.
	if len(w) < s.minLHS {
		return w
	}

	vEnd := s.minLHS - 1 // letters already written; none can end a match yet
	wPos := vEnd         // read cursor
	for wPos < len(w) {
		w[vEnd] = w[wPos]
		vEnd++
		wPos++
		if h, ok := s.index.findSuffix(w[:vEnd]); ok {
			r := s.store.rule(h)
			vEnd -= len(r.lhs)
			wPos -= len(r.rhs)
			copy(w[wPos:], r.rhs)
		}
	}
	return w[:vEnd]
}

// Rewrite reduces an external word to its normal form under the current
// (possibly non-confluent) rule set. Never fails for words over the
// alphabet; an out-of-alphabet letter is reported as a *word.LetterError.
func (s *System) Rewrite(w string) (string, error) {
	enc, err := s.alphabet.Encode(w)
	if err != nil {
		return "", err
	}
	return s.alphabet.Decode(s.rewriteInPlace(enc)), nil
}
