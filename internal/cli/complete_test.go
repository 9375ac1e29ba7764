package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semithue/kbrw/internal/runlog"
)

// execute runs the root command with args and returns stdout, stderr
// and the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestComplete_Example(t *testing.T) {
	out, _, err := execute(t, "complete", "example:kb-example")
	require.NoError(t, err)

	assert.Contains(t, out, "confluent:    true")
	assert.Contains(t, out, "active rules: 20")
	assert.Contains(t, out, "aaa -> a")
}

func TestComplete_JSONOutput(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "complete", "example:idempotent")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["confluent"])
	assert.Equal(t, float64(2), data["active_rules"])
	assert.NotEmpty(t, data["run"])
}

func TestComplete_MaxRulesExitsNonzero(t *testing.T) {
	out, _, err := execute(t, "complete", "example:kb-example", "--max-rules", "5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "confluent:    false")
}

func TestComplete_ByLength(t *testing.T) {
	out, _, err := execute(t, "complete", "example:kb-example", "--by-length")
	require.NoError(t, err)
	assert.Contains(t, out, "active rules: 20")
}

func TestComplete_InvalidPolicy(t *testing.T) {
	_, _, err := execute(t, "complete", "example:kb-example", "--policy", "bogus")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestComplete_WritesRunLog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	out, _, err := execute(t, "--format", "json", "complete", "example:collapse", "--db", dbPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	runToken, _ := data["run"].(string)
	require.NotEmpty(t, runToken)

	log, err := runlog.Open(dbPath)
	require.NoError(t, err)
	defer log.Close()

	records, err := log.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, runToken, records[0].ID,
		"the record id is the run token the engine logs under")
	assert.Equal(t, "collapse", records[0].Presentation)
	assert.Equal(t, "abc", records[0].Alphabet)
	assert.Equal(t, "ABC", records[0].Policy)
	assert.True(t, records[0].Confluent)
}
