package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_AgainstGivenRules(t *testing.T) {
	out, _, err := execute(t, "reduce", "example:kb-example", "abbbabb", "aaa")
	require.NoError(t, err)

	assert.Contains(t, out, "abbbabb -> bba")
	assert.Contains(t, out, "aaa -> a")
}

func TestReduce_WithCompletion(t *testing.T) {
	// bbababb and abbbbba reduce differently under the raw rules; after
	// completion they must land on the same normal form.
	out, _, err := execute(t, "reduce", "example:kb-example", "--complete", "bbababb", "abbbbba")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	nf1 := strings.TrimPrefix(lines[0], "bbababb -> ")
	nf2 := strings.TrimPrefix(lines[1], "abbbbba -> ")
	assert.Equal(t, nf1, nf2)
}

func TestReduce_UnknownLetter(t *testing.T) {
	_, _, err := execute(t, "reduce", "example:kb-example", "xyz")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReduce_RequiresWord(t *testing.T) {
	_, _, err := execute(t, "reduce", "example:kb-example")
	require.Error(t, err)
}
