package word

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MaxLetters is the size of the internal letter space. Presentations
// with more generators than this cannot be encoded.
const MaxLetters = 256

// Alphabet is the bidirectional mapping between the caller's external
// letters (runes) and the dense internal letter space 0..n-1.
//
// External strings are NFC normalized at the codec boundary so that
// visually identical generator names encode to the same letters
// regardless of how the caller composed them.
type Alphabet struct {
	letters []rune
	index   map[rune]Letter

	// identity is the fast path: every external letter i is exactly
	// rune(i), so encoding and decoding are plain byte copies.
	identity bool
}

// LetterError reports a letter that is not part of the alphabet.
type LetterError struct {
	Letter rune
}

// Error implements the error interface.
func (e *LetterError) Error() string {
	return fmt.Sprintf("letter %q is not in the alphabet", e.Letter)
}

// NewAlphabet builds an alphabet from the ordered external letters in
// s. The position of each letter in s is its internal letter.
//
// Returns an error if s is empty, contains a repeated letter, or has
// more than MaxLetters letters.
func NewAlphabet(s string) (*Alphabet, error) {
	s = norm.NFC.String(s)

	letters := []rune(s)
	if len(letters) == 0 {
		return nil, fmt.Errorf("alphabet must contain at least one letter")
	}
	if len(letters) > MaxLetters {
		return nil, fmt.Errorf("alphabet has %d letters, limit is %d", len(letters), MaxLetters)
	}

	a := &Alphabet{
		letters:  letters,
		index:    make(map[rune]Letter, len(letters)),
		identity: true,
	}
	for i, r := range letters {
		if _, dup := a.index[r]; dup {
			return nil, fmt.Errorf("alphabet letter %q repeated", r)
		}
		a.index[r] = Letter(i)
		// The identity fast path needs every external letter to be the
		// single byte equal to its internal letter.
		if r != rune(i) || i >= 0x80 {
			a.identity = false
		}
	}
	return a, nil
}

// Size returns the number of letters in the alphabet.
func (a *Alphabet) Size() int {
	return len(a.letters)
}

// Contains reports whether r is a letter of the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Encode converts an external string into an internal word.
// The input is NFC normalized before lookup.
//
// Returns a *LetterError if s contains a rune outside the alphabet.
func (a *Alphabet) Encode(s string) (Word, error) {
	s = norm.NFC.String(s)
	if a.identity {
		for i := 0; i < len(s); i++ {
			if int(s[i]) >= len(a.letters) {
				return nil, &LetterError{Letter: rune(s[i])}
			}
		}
		return Word(s), nil
	}
	w := make(Word, 0, len(s))
	for _, r := range s {
		l, ok := a.index[r]
		if !ok {
			return nil, &LetterError{Letter: r}
		}
		w = append(w, l)
	}
	return w, nil
}

// Decode converts an internal word back into an external string.
//
// Panics if w contains a letter outside the alphabet: internal words
// are produced only by Encode and by rewriting, so an out-of-range
// letter is an invariant violation, not a runtime condition.
func (a *Alphabet) Decode(w Word) string {
	if a.identity {
		return string(w)
	}
	out := make([]rune, len(w))
	for i, l := range w {
		if int(l) >= len(a.letters) {
			panic(fmt.Sprintf("internal letter %d out of range for alphabet of size %d", l, len(a.letters)))
		}
		out[i] = a.letters[l]
	}
	return string(out)
}

// Letters returns the external letters in internal order.
func (a *Alphabet) Letters() []rune {
	out := make([]rune, len(a.letters))
	copy(out, a.letters)
	return out
}
