package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/irreduce/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a test run with minimal required fields.
func createTestRun(id string, startedSeq int64) ir.ReductionRun {
	return ir.ReductionRun{
		ID:         id,
		InputHash:  "input-hash",
		Passes:     []string{"structs"},
		StartedSeq: startedSeq,
	}
}

// createTestAttempt creates a test attempt with minimal required fields.
func createTestAttempt(runID string, seq int64, outcome string) ir.ReductionAttempt {
	return ir.ReductionAttempt{
		RunID:         runID,
		Seq:           seq,
		Round:         1,
		Pass:          "structs",
		CandidateHash: "candidate-hash",
		Outcome:       outcome,
		SizeBefore:    ir.Stats{StructTypes: 1, StructFields: 4, Functions: 1, Instructions: 5},
		SizeAfter:     ir.Stats{StructTypes: 1, StructFields: 2, Functions: 1, Instructions: 5},
	}
}
