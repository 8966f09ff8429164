package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB  string
	Run string
}

// RunList is the history output without --run.
type RunList struct {
	DB   string            `json:"db"`
	Runs []ir.ReductionRun `json:"runs"`
}

func (l RunList) String() string {
	if len(l.Runs) == 0 {
		return fmt.Sprintf("No runs recorded in %s\n", l.DB)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Runs in %s:\n", l.DB)
	for _, r := range l.Runs {
		fmt.Fprintf(&sb, "  %s  seq=%-4d accepted=%-3d %-10s passes=%s\n",
			r.ID, r.StartedSeq, r.AcceptedCount, runStatus(r), strings.Join(r.Passes, ","))
	}
	return sb.String()
}

// RunDetail is the history output for a single run.
type RunDetail struct {
	Run      ir.ReductionRun       `json:"run"`
	Attempts []ir.ReductionAttempt `json:"attempts"`
}

func (d RunDetail) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Run %s (%s)\n", d.Run.ID, runStatus(d.Run))
	fmt.Fprintf(&sb, "  input:    %s\n", d.Run.InputHash)
	if d.Run.FinalHash != "" {
		fmt.Fprintf(&sb, "  final:    %s\n", d.Run.FinalHash)
	}
	fmt.Fprintf(&sb, "  passes:   %s\n", strings.Join(d.Run.Passes, ","))
	fmt.Fprintf(&sb, "  accepted: %d\n", d.Run.AcceptedCount)
	fmt.Fprintf(&sb, "  attempts: %d\n", len(d.Attempts))
	for _, a := range d.Attempts {
		fmt.Fprintf(&sb, "    #%-4d round=%d %-8s %-9s fields %d -> %d",
			a.Seq, a.Round, a.Pass, a.Outcome, a.SizeBefore.StructFields, a.SizeAfter.StructFields)
		if a.Detail != "" {
			fmt.Fprintf(&sb, "  (%s)", a.Detail)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func runStatus(r ir.ReductionRun) string {
	if r.Finished {
		return "finished"
	}
	return "unfinished"
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded reduction runs",
		Long: `List the runs in a run log written by reduce --db.

With --run, show one run and every attempt it made in sequence order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", env.Str(EnvDB), "run log database, default from $"+EnvDB)
	cmd.Flags().StringVar(&opts.Run, "run", "", "run ID to show")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.DB == "" {
		return formatter.Fail(ExitCommandError, ErrCodeBadFlag, "--db or $"+EnvDB+" is required", nil)
	}
	if _, err := os.Stat(opts.DB); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "run log not found: "+opts.DB, nil)
	}

	st, err := store.OpenReadOnly(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	if opts.Run == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		return formatter.Success(RunList{DB: opts.DB, Runs: runs})
	}

	run, err := st.ReadRun(ctx, opts.Run)
	if errors.Is(err, store.ErrRunNotFound) {
		return formatter.Fail(ExitFailure, ErrCodeRunNotFound, fmt.Sprintf("run %q not found", opts.Run), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	attempts, err := st.ReadAttempts(ctx, opts.Run)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	return formatter.Success(RunDetail{Run: run, Attempts: attempts})
}
