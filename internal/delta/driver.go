package delta

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/log"
	"github.com/roach88/irreduce/internal/reduce"
)

// DefaultMaxRounds bounds the number of rounds when Driver.MaxRounds is unset.
const DefaultMaxRounds = 8

// Recorder persists a run and its attempts.
type Recorder interface {
	BeginRun(ctx context.Context, run ir.ReductionRun) error
	RecordAttempt(ctx context.Context, attempt ir.ReductionAttempt) error
	FinishRun(ctx context.Context, run ir.ReductionRun) error
}

// Driver applies passes to a module until no pass produces an accepted
// candidate.
type Driver struct {
	Passes []reduce.Pass

	// Oracle judges candidates. nil accepts every candidate.
	Oracle Oracle

	// Recorder receives the run and every attempt. nil records nothing.
	Recorder Recorder

	// IDs generates the run ID. nil uses UUIDv7Generator.
	IDs IDGenerator

	// Clock stamps attempts. nil starts a new clock at 0.
	Clock *Clock

	Logger *slog.Logger

	// MaxRounds bounds the number of rounds. <= 0 uses DefaultMaxRounds.
	MaxRounds int
}

// Result is the outcome of Driver.Run.
type Result struct {
	Run      ir.ReductionRun
	Module   *ir.Module // best interesting module found
	Rounds   int
	Attempts []ir.ReductionAttempt
	Before   ir.Stats
	After    ir.Stats
}

// Run reduces m. The input module is never modified.
//
// If ctx is done between attempts, Run returns the best module found so far
// together with ctx.Err().
func (d *Driver) Run(ctx context.Context, m *ir.Module) (*Result, error) {
	if len(d.Passes) == 0 {
		return nil, &DriverError{Code: ErrCodeNoPasses, Message: "no passes configured"}
	}
	if err := m.Verify(); err != nil {
		return nil, fmt.Errorf("input module: %w", err)
	}

	logger := log.Section(d.Logger, "delta")
	oracle := d.Oracle
	if oracle == nil {
		oracle = AcceptAll
	}
	ids := d.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	clock := d.Clock
	if clock == nil {
		clock = NewClock()
	}
	maxRounds := d.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	inputHash, err := ir.ModuleHash(m)
	if err != nil {
		return nil, fmt.Errorf("hashing input: %w", err)
	}

	ok, err := oracle.Interesting(ctx, m)
	if err != nil {
		return nil, NewOracleError("", err)
	}
	if !ok {
		return nil, &DriverError{
			Code:    ErrCodeInputNotInteresting,
			Message: "oracle rejects the unmodified input",
			Details: map[string]string{"input_hash": inputHash},
		}
	}

	names := make([]string, len(d.Passes))
	for i, p := range d.Passes {
		names[i] = p.Name()
	}

	res := &Result{
		Run: ir.ReductionRun{
			ID:         ids.Generate(),
			InputHash:  inputHash,
			Passes:     names,
			StartedSeq: clock.Current(),
			FinalHash:  inputHash,
		},
		Module: m,
		Before: m.Stats(),
	}
	if err := d.begin(ctx, res.Run); err != nil {
		return nil, err
	}
	logger.Info("reduction started", "run", res.Run.ID, "input", shortHash(inputHash), "passes", names)

	current, currentHash := m, inputHash
	for round := 1; round <= maxRounds; round++ {
		res.Rounds = round
		accepted := 0

		for _, p := range d.Passes {
			if err := ctx.Err(); err != nil {
				return d.finish(ctx, res, current, false, err)
			}

			attempt, candidate, err := d.attempt(ctx, oracle, p, current, currentHash)
			attempt.RunID = res.Run.ID
			attempt.Seq = clock.Next()
			attempt.Round = round

			res.Attempts = append(res.Attempts, attempt)
			if recErr := d.record(ctx, attempt); recErr != nil {
				return nil, recErr
			}
			logger.Info("attempt",
				"round", round, "pass", p.Name(), "outcome", attempt.Outcome,
				"candidate", shortHash(attempt.CandidateHash))

			if err != nil {
				return d.finish(ctx, res, current, false, err)
			}
			if attempt.Outcome == ir.OutcomeAccepted {
				current, currentHash = candidate, attempt.CandidateHash
				res.Run.AcceptedCount++
				accepted++
			}
		}

		if accepted == 0 {
			break
		}
	}

	return d.finish(ctx, res, current, true, nil)
}

// attempt applies p to a clone of current and classifies the candidate.
// A non-nil error aborts the run; the attempt is still returned for the log.
func (d *Driver) attempt(ctx context.Context, oracle Oracle, p reduce.Pass, current *ir.Module, currentHash string) (ir.ReductionAttempt, *ir.Module, error) {
	attempt := ir.ReductionAttempt{Pass: p.Name(), SizeBefore: current.Stats()}

	candidate := current.Clone()
	if err := applyPass(p, candidate); err != nil {
		return failed(attempt, err), nil, nil
	}
	if err := candidate.Verify(); err != nil {
		return failed(attempt, fmt.Errorf("candidate from %s: %w", p.Name(), err)), nil, nil
	}

	hash, err := ir.ModuleHash(candidate)
	if err != nil {
		return failed(attempt, err), nil, nil
	}
	attempt.CandidateHash = hash
	attempt.SizeAfter = candidate.Stats()

	if hash == currentHash {
		attempt.Outcome = ir.OutcomeUnchanged
		return attempt, nil, nil
	}

	ok, err := oracle.Interesting(ctx, candidate)
	if err != nil {
		oerr := NewOracleError(p.Name(), err)
		return failed(attempt, oerr), nil, oerr
	}
	if !ok {
		attempt.Outcome = ir.OutcomeRejected
		return attempt, nil, nil
	}
	attempt.Outcome = ir.OutcomeAccepted
	return attempt, candidate, nil
}

func failed(attempt ir.ReductionAttempt, err error) ir.ReductionAttempt {
	attempt.Outcome = ir.OutcomeFailed
	attempt.Detail = err.Error()
	return attempt
}

// applyPass runs p on m, converting a panic into a *DriverError.
func applyPass(p reduce.Pass, m *ir.Module) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var cause error
			if e, ok := r.(error); ok {
				cause = errors.WithStack(e)
			} else {
				cause = errors.Errorf("%v", r)
			}
			err = &DriverError{
				Code:    ErrCodePassPanicked,
				Message: cause.Error(),
				Pass:    p.Name(),
				Cause:   cause,
			}
		}
	}()
	p.Apply(m)
	return nil
}

func (d *Driver) finish(ctx context.Context, res *Result, current *ir.Module, finished bool, cause error) (*Result, error) {
	res.Module = current
	res.After = current.Stats()
	res.Run.Finished = finished
	res.Run.FinalHash = ""
	if h, err := ir.ModuleHash(current); err == nil {
		res.Run.FinalHash = h
	}

	if d.Recorder != nil {
		// A cancelled ctx must not prevent closing the run.
		if err := d.Recorder.FinishRun(context.WithoutCancel(ctx), res.Run); err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
	}
	log.Section(d.Logger, "delta").Info("reduction finished",
		"run", res.Run.ID, "rounds", res.Rounds, "accepted", res.Run.AcceptedCount,
		"final", shortHash(res.Run.FinalHash), "finished", finished)
	return res, cause
}

func (d *Driver) begin(ctx context.Context, run ir.ReductionRun) error {
	if d.Recorder == nil {
		return nil
	}
	if err := d.Recorder.BeginRun(ctx, run); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

func (d *Driver) record(ctx context.Context, attempt ir.ReductionAttempt) error {
	if d.Recorder == nil {
		return nil
	}
	if err := d.Recorder.RecordAttempt(context.WithoutCancel(ctx), attempt); err != nil {
		return fmt.Errorf("recording attempt %d: %w", attempt.Seq, err)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
