package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semithue/kbrw/internal/runlog"
)

func TestRuns_ListsRecordedRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	log, err := runlog.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, log.Write(context.Background(), runlog.Record{
		ID:           "run-1",
		Presentation: "kb-example",
		Alphabet:     "ab",
		Policy:       "ABC",
		Confluent:    true,
		ActiveRules:  20,
		StartedAt:    time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Duration:     17 * time.Millisecond,
	}))
	require.NoError(t, log.Close())

	out, _, err := execute(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "kb-example")
	assert.Contains(t, out, "confluent=true")
}

func TestRuns_EmptyLog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	log, err := runlog.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, log.Close())

	out, _, err := execute(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no runs recorded")
}

func TestRuns_MissingDatabase(t *testing.T) {
	_, _, err := execute(t, "runs", "--db", filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
