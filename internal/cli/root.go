package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

// Environment variables providing flag defaults. Flags override them.
const (
	EnvFormat    = "IRREDUCE_FORMAT"
	EnvDB        = "IRREDUCE_DB"
	EnvMaxRounds = "IRREDUCE_MAX_ROUNDS"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the irreduce CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "irreduce",
		Short: "irreduce - IR test-case reducer",
		Long: `Shrink IR modules while an external test keeps passing.

The structs pass drops struct fields that are never addressed and renumbers
the remaining field accesses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", msg)
				return NewExitError(ExitCommandError, msg)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", env.Str(EnvFormat, "text"),
		"output format (json|text), default from $"+EnvFormat)

	cmd.AddCommand(NewReduceCommand(opts))
	cmd.AddCommand(NewAnalyzeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}
