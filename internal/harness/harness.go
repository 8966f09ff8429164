package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/irreduce/internal/delta"
	"github.com/roach88/irreduce/internal/irfile"
	"github.com/roach88/irreduce/internal/log"
	"github.com/roach88/irreduce/internal/reduce"
	"github.com/roach88/irreduce/internal/store"
	"github.com/roach88/irreduce/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs scenarios with a deterministic clock and run ID.
type Harness struct {
	store  *store.Store
	ids    delta.IDGenerator
	clock  *delta.Clock
	logger *slog.Logger
}

// Run executes a scenario and returns the result. ctx bounds the reduction.
//
// Each scenario runs in a fresh in-memory run log for isolation.
//
// Execution flow:
// 1. Load the input module
// 2. Select passes
// 3. Reduce with an accept-all oracle, recording every attempt
// 4. Read the run back from the log
// 5. Evaluate expectations
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return RunWithLogger(ctx, scenario, log.Discard())
}

// RunWithLogger is Run with driver and pass logs sent to logger.
func RunWithLogger(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		ids:    testutil.NewFixedRunIDGenerator(scenario.RunID),
		clock:  delta.NewClock(),
		logger: logger,
	}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	input, err := irfile.Load(scenario.Module)
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}

	passes, err := reduce.DefaultRegistry(h.logger).Select(scenario.Passes)
	if err != nil {
		return nil, fmt.Errorf("failed to select passes: %w", err)
	}

	d := &delta.Driver{
		Passes:   passes,
		Oracle:   delta.AcceptAll,
		Recorder: h.store,
		IDs:      h.ids,
		Clock:    h.clock,
		Logger:   h.logger,
	}
	res, err := d.Run(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to reduce %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Input = input
	result.Output = res.Module

	// The log, not the driver's in-memory copy, is the record under test.
	result.Run, err = h.store.ReadRun(ctx, res.Run.ID)
	if err != nil {
		return nil, err
	}
	result.Attempts, err = h.store.ReadAttempts(ctx, res.Run.ID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("scenario reduced",
		"scenario", scenario.Name,
		"run", result.Run.ID,
		"attempts", len(result.Attempts),
		"accepted", result.Run.AcceptedCount,
	)

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}
