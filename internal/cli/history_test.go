package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreduce/internal/ir"
)

// recordRuns reduces the scenario module once per run ID into one run log.
func recordRuns(t *testing.T, dir string, ids ...string) string {
	t.Helper()
	db := filepath.Join(dir, "runs.db")
	input := writeFile(t, dir, "m.yaml", scenarioYAML)
	for _, id := range ids {
		_, _, err := execute(newTestReduceCommand("text", id), input, "--db", db)
		require.NoError(t, err)
	}
	return db
}

func TestHistoryListsRuns(t *testing.T) {
	db := recordRuns(t, t.TempDir(), "run-a", "run-b")

	cmd := NewHistoryCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string  `json:"status"`
		Data   RunList `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Data.Runs, 2)
	assert.Equal(t, "run-a", resp.Data.Runs[0].ID)
	assert.Equal(t, "run-b", resp.Data.Runs[1].ID)
	assert.Less(t, resp.Data.Runs[0].StartedSeq, resp.Data.Runs[1].StartedSeq,
		"the second run continues the first run's sequence")
	assert.True(t, resp.Data.Runs[0].Finished)
	assert.Equal(t, []string{"structs"}, resp.Data.Runs[0].Passes)
}

func TestHistoryListText(t *testing.T) {
	db := recordRuns(t, t.TempDir(), "run-a")

	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Runs in "+db)
	assert.Contains(t, out.String(), "run-a")
	assert.Contains(t, out.String(), "finished")
}

func TestHistoryRunDetail(t *testing.T) {
	db := recordRuns(t, t.TempDir(), "run-a")

	cmd := NewHistoryCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, "--db", db, "--run", "run-a")
	require.NoError(t, err)

	var resp struct {
		Data RunDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "run-a", resp.Data.Run.ID)
	assert.Equal(t, 1, resp.Data.Run.AcceptedCount)
	require.Len(t, resp.Data.Attempts, 2)
	assert.Equal(t, ir.OutcomeAccepted, resp.Data.Attempts[0].Outcome)
	assert.Equal(t, ir.OutcomeUnchanged, resp.Data.Attempts[1].Outcome)
	assert.Less(t, resp.Data.Attempts[0].Seq, resp.Data.Attempts[1].Seq)
}

func TestHistoryRunDetailText(t *testing.T) {
	db := recordRuns(t, t.TempDir(), "run-a")

	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, "--db", db, "--run", "run-a")
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Run run-a (finished)")
	assert.Contains(t, output, "attempts: 2")
	assert.Contains(t, output, "fields 4 -> 2")
}

func TestHistoryRunNotFound(t *testing.T) {
	db := recordRuns(t, t.TempDir(), "run-a")

	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	_, _, err := execute(cmd, "--db", db, "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeRunNotFound)
}

func TestHistoryRequiresDB(t *testing.T) {
	t.Setenv(EnvDB, "")

	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	_, _, err := execute(cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeBadFlag)
}

func TestHistoryMissingDB(t *testing.T) {
	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	_, _, err := execute(cmd, "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestHistoryEmptyLog(t *testing.T) {
	assert.Equal(t, "No runs recorded in x.db\n", RunList{DB: "x.db"}.String())
}
