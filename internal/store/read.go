package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/irreduce/internal/ir"
)

// ErrRunNotFound is returned when a run ID is not in the log.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.ReductionRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, input_hash, pass_list, started_seq, finished, final_hash, accepted_count
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.ReductionRun{}, fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return ir.ReductionRun{}, fmt.Errorf("read run %q: %w", id, err)
	}
	return run, nil
}

// ListRuns returns every run ordered by started_seq, then ID.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ListRuns(ctx context.Context) ([]ir.ReductionRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input_hash, pass_list, started_seq, finished, final_hash, accepted_count
		FROM runs
		ORDER BY started_seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.ReductionRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadAttempts returns the attempts of a run ordered by seq.
//
// Returns an empty slice (not nil) if the run has no attempts.
func (s *Store) ReadAttempts(ctx context.Context, runID string) ([]ir.ReductionAttempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, round, pass, candidate_hash, outcome, size_before, size_after, detail
		FROM attempts
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []ir.ReductionAttempt{}
	for rows.Next() {
		var a ir.ReductionAttempt
		var before, after string
		if err := rows.Scan(&a.RunID, &a.Seq, &a.Round, &a.Pass, &a.CandidateHash,
			&a.Outcome, &before, &after, &a.Detail); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if a.SizeBefore, err = unmarshalStats(before); err != nil {
			return nil, err
		}
		if a.SizeAfter, err = unmarshalStats(after); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

// LastSeq returns the highest attempt seq in the log, or 0 if it is empty.
// A driver clock started here keeps seq increasing across runs.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM attempts
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (ir.ReductionRun, error) {
	var run ir.ReductionRun
	var passes string
	if err := row.Scan(&run.ID, &run.InputHash, &passes, &run.StartedSeq,
		&run.Finished, &run.FinalHash, &run.AcceptedCount); err != nil {
		return ir.ReductionRun{}, err
	}
	p, err := unmarshalPasses(passes)
	if err != nil {
		return ir.ReductionRun{}, err
	}
	run.Passes = p
	return run, nil
}
