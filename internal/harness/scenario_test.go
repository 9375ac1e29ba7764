package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "idempotent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "idempotent", s.Name)
	assert.Equal(t, "example:idempotent", s.Presentation)
	assert.True(t, s.Complete)
	assert.True(t, s.ExpectConfluent)
	assert.Equal(t, []string{"aba", "aabb"}, s.Words)
}

func TestLoadScenario_ResolvesRelativePresentation(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "free-commutative.yaml"))
	require.NoError(t, err)

	assert.Equal(t,
		filepath.Join("testdata", "scenarios", "..", "presentations", "free-commutative.yaml"),
		s.Presentation)
	_, err = os.Stat(s.Presentation)
	assert.NoError(t, err, "resolved path must exist")
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenario(t, `name: x
description: y
presentation: example:idempotent
word: [a]
`)
	_, err := LoadScenario(path)
	require.Error(t, err, "a typoed key must not be silently dropped")
}

func TestLoadScenario_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no name", "description: y\npresentation: example:idempotent\n"},
		{"no description", "name: x\npresentation: example:idempotent\n"},
		{"no presentation", "name: x\ndescription: y\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.src))
			assert.Error(t, err)
		})
	}
}
