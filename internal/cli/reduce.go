package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/roach88/irreduce/internal/delta"
	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/irfile"
	"github.com/roach88/irreduce/internal/reduce"
	"github.com/roach88/irreduce/internal/store"
)

// ReduceOptions holds flags for the reduce command.
type ReduceOptions struct {
	*RootOptions
	Output    string
	Passes    []string
	Test      string
	DB        string
	MaxRounds int

	ids delta.IDGenerator
}

// ReduceResult summarises a finished reduction.
type ReduceResult struct {
	RunID     string                `json:"run_id"`
	Input     string                `json:"input"`
	Output    string                `json:"output"`
	InputHash string                `json:"input_hash"`
	FinalHash string                `json:"final_hash"`
	Rounds    int                   `json:"rounds"`
	Accepted  int                   `json:"accepted"`
	Before    ir.Stats              `json:"before"`
	After     ir.Stats              `json:"after"`
	Attempts  []ir.ReductionAttempt `json:"attempts"`
}

func (r ReduceResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✓ Reduced %s -> %s\n", r.Input, r.Output)
	fmt.Fprintf(&sb, "  run:           %s\n", r.RunID)
	fmt.Fprintf(&sb, "  rounds:        %d\n", r.Rounds)
	fmt.Fprintf(&sb, "  accepted:      %d\n", r.Accepted)
	fmt.Fprintf(&sb, "  struct types:  %d -> %d\n", r.Before.StructTypes, r.After.StructTypes)
	fmt.Fprintf(&sb, "  struct fields: %d -> %d\n", r.Before.StructFields, r.After.StructFields)
	fmt.Fprintf(&sb, "  instructions:  %d -> %d\n", r.Before.Instructions, r.After.Instructions)
	return sb.String()
}

// NewReduceCommand creates the reduce command.
func NewReduceCommand(rootOpts *RootOptions) *cobra.Command {
	return newReduceCommand(rootOpts, delta.UUIDv7Generator{})
}

func newReduceCommand(rootOpts *RootOptions, ids delta.IDGenerator) *cobra.Command {
	opts := &ReduceOptions{RootOptions: rootOpts, ids: ids}

	cmd := &cobra.Command{
		Use:   "reduce <module>",
		Short: "Reduce a module while the test keeps passing",
		Long: `Apply reduction passes until none of them changes the module.

Each candidate is written to a temporary file and passed as the last argument
to the --test command; exit status 0 keeps the candidate. Without --test
every candidate is kept. The reduced module is written to --output, or next
to the input as <name>.reduced.<ext>.

With --db, the run and every attempt are appended to a SQLite run log.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReduce(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output path (.yaml, .yml or .json)")
	cmd.Flags().StringArrayVar(&opts.Passes, "pass", nil, "pass to run, repeatable (default all)")
	cmd.Flags().StringVar(&opts.Test, "test", "", "test command judging candidates (split on spaces)")
	cmd.Flags().StringVar(&opts.DB, "db", env.Str(EnvDB), "run log database, default from $"+EnvDB)
	cmd.Flags().IntVar(&opts.MaxRounds, "max-rounds", env.Int(EnvMaxRounds, delta.DefaultMaxRounds),
		"maximum rounds, default from $"+EnvMaxRounds)

	return cmd
}

func runReduce(ctx context.Context, opts *ReduceOptions, input string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := formatter.Logger()

	if opts.MaxRounds <= 0 {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag,
			fmt.Sprintf("--max-rounds must be positive, got %d", opts.MaxRounds), nil)
	}
	output := opts.Output
	if output == "" {
		output = reducedPath(input)
	}
	if format, err := irfile.FormatFromPath(output); err != nil || format == irfile.FormatCUE {
		return formatter.Fail(ExitCommandError, ErrCodeUnsupported,
			fmt.Sprintf("cannot write module to %q (want .yaml, .yml or .json)", output), nil)
	}

	m, err := loadModule(formatter, input)
	if err != nil {
		return err
	}

	passes, err := reduce.DefaultRegistry(logger).Select(opts.Passes)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUnknownPass, err.Error(), nil)
	}

	d := &delta.Driver{
		Passes:    passes,
		IDs:       opts.ids,
		Logger:    logger,
		MaxRounds: opts.MaxRounds,
	}
	if opts.Test != "" {
		fields := strings.Fields(opts.Test)
		d.Oracle = &delta.ExecOracle{Command: fields[0], Args: fields[1:]}
		formatter.VerboseLog("Judging candidates with %s", opts.Test)
	}

	if opts.DB != "" {
		st, err := store.Open(opts.DB)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		defer st.Close()

		last, err := st.LastSeq(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		d.Recorder = st
		d.Clock = delta.NewClockAt(last)
		formatter.VerboseLog("Recording run in %s (seq %d)", opts.DB, last)
	}

	res, err := d.Run(ctx, m)
	if res != nil {
		// Aborted runs still carry the best interesting module found.
		if saveErr := irfile.Save(output, res.Module); saveErr != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, saveErr.Error(), nil)
		}
	}
	if err != nil {
		return reduceError(formatter, err)
	}

	return formatter.Success(ReduceResult{
		RunID:     res.Run.ID,
		Input:     input,
		Output:    output,
		InputHash: res.Run.InputHash,
		FinalHash: res.Run.FinalHash,
		Rounds:    res.Rounds,
		Accepted:  res.Run.AcceptedCount,
		Before:    res.Before,
		After:     res.After,
		Attempts:  res.Attempts,
	})
}

// reduceError maps driver errors to CLI error codes.
func reduceError(f *OutputFormatter, err error) error {
	var de *delta.DriverError
	switch {
	case delta.IsNotInteresting(err):
		return f.Fail(ExitFailure, ErrCodeNotInteresting, "the test rejects the unmodified input", nil)
	case delta.IsOracleError(err):
		return f.Fail(ExitCommandError, ErrCodeOracle, err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return f.Fail(ExitFailure, ErrCodeCancelled, err.Error(), nil)
	case errors.As(err, &de):
		return f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), de.Details)
	default:
		return f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
}

// reducedPath returns the default output path for input: "m.yaml" becomes
// "m.reduced.yaml". CUE inputs are written as YAML.
func reducedPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if ext == ".cue" {
		ext = ".yaml"
	}
	return base + ".reduced" + ext
}
