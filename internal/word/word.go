package word

import "bytes"

// Letter is a single internal letter. Internal letters are dense: a
// presentation with n generators uses letters 0..n-1.
type Letter = byte

// Word is a word over the internal letter space.
//
// Word is a []byte so the bytes package can be used directly for
// substring and prefix tests, which the completion loop does a lot of.
type Word []Letter

// Clone returns an independent copy of w.
//
// The rule store recycles rule slots, so any word that outlives the
// rule it was read from must be cloned first.
func Clone(w Word) Word {
	if w == nil {
		return nil
	}
	c := make(Word, len(w))
	copy(c, w)
	return c
}

// Concat returns a fresh word holding the concatenation of p and q.
func Concat(p, q Word) Word {
	c := make(Word, 0, len(p)+len(q))
	c = append(c, p...)
	return append(c, q...)
}

// Equal reports whether p and q are the same word.
func Equal(p, q Word) bool {
	return bytes.Equal(p, q)
}

// Compare compares p and q under the shortlex reduction order: shorter
// words are smaller, equal lengths break ties lexicographically on the
// internal letters. Returns -1, 0 or 1.
//
// Shortlex is a well-order, so every rewrite under a rule whose left
// side is strictly greater than its right side shrinks the word's
// position in the order and rewriting terminates.
func Compare(p, q Word) int {
	if len(p) != len(q) {
		if len(p) < len(q) {
			return -1
		}
		return 1
	}
	return bytes.Compare(p, q)
}

// Less reports whether p is strictly smaller than q under shortlex.
func Less(p, q Word) bool {
	return Compare(p, q) < 0
}
