package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/reduce"
)

// TypeReport describes the planned layout of one struct type.
type TypeReport struct {
	Type   string   `json:"type"`
	State  string   `json:"state"`
	Before int      `json:"fields_before"`
	After  int      `json:"fields_after"`
	Kept   []uint64 `json:"kept,omitempty"`
}

// AnalysisResult lists every struct type accessed by a field access.
type AnalysisResult struct {
	Module string       `json:"module"`
	Types  []TypeReport `json:"types"`
}

func (r AnalysisResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Module %s\n", r.Module)
	if len(r.Types) == 0 {
		sb.WriteString("  no struct field accesses\n")
		return sb.String()
	}
	for _, t := range r.Types {
		if t.State == reduce.Reducible.String() {
			fmt.Fprintf(&sb, "  %-12s %-14s %d -> %d fields, keep %v\n", t.Type, t.State, t.Before, t.After, t.Kept)
			continue
		}
		fmt.Fprintf(&sb, "  %-12s %-14s %d fields\n", t.Type, t.State, t.Before)
	}
	return sb.String()
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <module>",
		Short: "Show which struct fields the structs pass would keep",
		Long: `Classify every struct type used as the source of a field access.

A type is reducible when every field access uses a constant index; its
planned layout keeps exactly the accessed fields. The module is not modified.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runAnalyze(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	m, err := loadModule(formatter, path)
	if err != nil {
		return err
	}

	return formatter.Success(analyze(m))
}

func analyze(m *ir.Module) AnalysisResult {
	p := ir.NewPrinter(m)
	res := AnalysisResult{Module: m.Name, Types: []TypeReport{}}
	for _, plan := range reduce.Plan(m) {
		res.Types = append(res.Types, TypeReport{
			Type:   p.Type(plan.Type),
			State:  plan.Kind.String(),
			Before: plan.Before,
			After:  plan.After,
			Kept:   plan.Kept,
		})
	}
	return res
}
