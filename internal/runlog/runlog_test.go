package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func sampleRecord(id string) Record {
	return Record{
		ID:           id,
		Presentation: "kb-example",
		Alphabet:     "ab",
		Policy:       "ABC",
		Confluent:    true,
		ActiveRules:  20,
		RulesCreated: 57,
		StackPops:    91,
		Overlaps:     312,
		StartedAt:    time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		Duration:     42 * time.Millisecond,
	}
}

func TestWriteAndGet(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	want := sampleRecord("run-1")
	require.NoError(t, l.Write(ctx, want))

	got, err := l.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGet_NotFound(t *testing.T) {
	l := openTestLog(t)

	_, err := l.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWrite_DuplicateIDIgnored(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	first := sampleRecord("run-1")
	require.NoError(t, l.Write(ctx, first))

	second := first
	second.ActiveRules = 999
	require.NoError(t, l.Write(ctx, second), "retried write must not error")

	got, err := l.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.ActiveRules, "first write wins")
}

func TestList_NewestFirst(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	old := sampleRecord("run-old")
	old.StartedAt = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	recent := sampleRecord("run-new")
	require.NoError(t, l.Write(ctx, old))
	require.NoError(t, l.Write(ctx, recent))

	got, err := l.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "run-new", got[0].ID)
	assert.Equal(t, "run-old", got[1].ID)

	got, err = l.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "run-new", got[0].ID)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	l1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l1.Write(context.Background(), sampleRecord("run-1")))
	require.NoError(t, l1.Close())

	l2, err := Open(path)
	require.NoError(t, err)
	defer l2.Close()

	got, err := l2.Get(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "kb-example", got.Presentation)
}
