package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/irreduce/internal/delta"
	"github.com/roach88/irreduce/internal/ir"
)

var _ delta.Recorder = (*Store)(nil)

// ErrReadOnly is returned by writes on a store opened with OpenReadOnly.
var ErrReadOnly = errors.New("run log is open read-only")

// BeginRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) BeginRun(ctx context.Context, run ir.ReductionRun) error {
	if s.readOnly {
		return fmt.Errorf("begin run: %w", ErrReadOnly)
	}
	passes, err := marshalPasses(run.Passes)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, input_hash, pass_list, started_seq, finished, final_hash, accepted_count, reducer_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.InputHash,
		passes,
		run.StartedSeq,
		run.Finished,
		run.FinalHash,
		run.AcceptedCount,
		ir.ReducerVersion,
		ir.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordAttempt inserts an attempt record.
// Uses ON CONFLICT DO NOTHING for idempotency: a second attempt with the same
// (run_id, seq) is silently ignored.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) RecordAttempt(ctx context.Context, a ir.ReductionAttempt) error {
	if s.readOnly {
		return fmt.Errorf("record attempt: %w", ErrReadOnly)
	}
	if !ir.ValidOutcomes[a.Outcome] {
		return fmt.Errorf("record attempt: invalid outcome %q", a.Outcome)
	}
	before, err := marshalStats(a.SizeBefore)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	after, err := marshalStats(a.SizeAfter)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attempts
		(run_id, seq, round, pass, candidate_hash, outcome, size_before, size_after, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		a.RunID,
		a.Seq,
		a.Round,
		a.Pass,
		a.CandidateHash,
		a.Outcome,
		before,
		after,
		a.Detail,
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// FinishRun stores the final state of a run begun with BeginRun.
func (s *Store) FinishRun(ctx context.Context, run ir.ReductionRun) error {
	if s.readOnly {
		return fmt.Errorf("finish run: %w", ErrReadOnly)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished = ?, final_hash = ?, accepted_count = ?
		WHERE id = ?
	`, run.Finished, run.FinalHash, run.AcceptedCount, run.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %q: %w", run.ID, ErrRunNotFound)
	}
	return nil
}
