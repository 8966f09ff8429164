package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/irreduce/internal/ir"
)

// ValidationResult reports a module that loaded and verified.
type ValidationResult struct {
	Path   string   `json:"path"`
	Module string   `json:"module"`
	Hash   string   `json:"hash"`
	Stats  ir.Stats `json:"stats"`
}

func (r ValidationResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✓ %s is valid (module %s)\n", r.Path, r.Module)
	writeStats(&sb, r.Stats)
	return sb.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <module>",
		Short: "Load and verify a module document",
		Long: `Decode a module document (.yaml, .yml, .json or .cue) and verify it.

Reports the module's content hash and size. Struct types that no function
references are not counted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	m, err := loadModule(formatter, path)
	if err != nil {
		return err
	}

	hash, err := ir.ModuleHash(m)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	return formatter.Success(ValidationResult{
		Path:   path,
		Module: m.Name,
		Hash:   hash,
		Stats:  m.Stats(),
	})
}

// writeStats prints module sizes one per line.
func writeStats(sb *strings.Builder, st ir.Stats) {
	fmt.Fprintf(sb, "  struct types:  %d\n", st.StructTypes)
	fmt.Fprintf(sb, "  struct fields: %d\n", st.StructFields)
	fmt.Fprintf(sb, "  functions:     %d\n", st.Functions)
	fmt.Fprintf(sb, "  instructions:  %d\n", st.Instructions)
}
