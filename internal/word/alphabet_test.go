package word

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlphabet_Validation(t *testing.T) {
	_, err := NewAlphabet("")
	assert.Error(t, err, "empty alphabet")

	_, err = NewAlphabet("aba")
	assert.Error(t, err, "repeated letter")

	a, err := NewAlphabet("abc")
	require.NoError(t, err)
	assert.Equal(t, 3, a.Size())
}

func TestAlphabet_EncodeDecode(t *testing.T) {
	a, err := NewAlphabet("abc")
	require.NoError(t, err)

	w, err := a.Encode("cab")
	require.NoError(t, err)
	assert.True(t, Equal(Word{2, 0, 1}, w))
	assert.Equal(t, "cab", a.Decode(w))
}

func TestAlphabet_EncodeEmpty(t *testing.T) {
	a, err := NewAlphabet("ab")
	require.NoError(t, err)

	w, err := a.Encode("")
	require.NoError(t, err)
	assert.Len(t, w, 0)
	assert.Equal(t, "", a.Decode(w))
}

func TestAlphabet_EncodeUnknownLetter(t *testing.T) {
	a, err := NewAlphabet("ab")
	require.NoError(t, err)

	_, err = a.Encode("abz")
	require.Error(t, err)

	var le *LetterError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 'z', le.Letter)
}

func TestAlphabet_Contains(t *testing.T) {
	a, err := NewAlphabet("xy")
	require.NoError(t, err)

	assert.True(t, a.Contains('x'))
	assert.False(t, a.Contains('a'))
}

func TestAlphabet_NFCNormalization(t *testing.T) {
	// U+00E9 composed vs e + U+0301 combining acute: both spellings
	// must encode to the same internal letter.
	a, err := NewAlphabet("\u00e9!")
	require.NoError(t, err)

	composed, err := a.Encode("\u00e9")
	require.NoError(t, err)
	decomposed, err := a.Encode("e\u0301")
	require.NoError(t, err)
	assert.True(t, Equal(composed, decomposed))
}

func TestAlphabet_IdentityFastPath(t *testing.T) {
	// Letters 0 and 1 are their own internal letters.
	a, err := NewAlphabet("\x00\x01")
	require.NoError(t, err)

	w, err := a.Encode("\x01\x00\x01")
	require.NoError(t, err)
	assert.True(t, Equal(Word{1, 0, 1}, w))

	// Out-of-range bytes are still rejected on the fast path.
	_, err = a.Encode("\x02")
	assert.Error(t, err)
}
