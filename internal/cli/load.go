package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/irfile"
)

// loadModule reads a module document, reporting failures through f.
func loadModule(f *OutputFormatter, path string) (*ir.Module, error) {
	if _, err := irfile.FormatFromPath(path); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeUnsupported, err.Error(), nil)
	}

	m, err := irfile.Load(path)
	if err == nil {
		f.VerboseLog("Loaded %s: module %s", path, m.Name)
		return m, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, "input not found: "+path, nil)
	}
	var de *irfile.DecodeError
	if errors.As(err, &de) {
		details := map[string]any{"field": de.Field}
		if de.Pos.IsValid() {
			details["line"] = de.Pos.Line()
			details["column"] = de.Pos.Column()
		}
		return nil, f.Fail(ExitFailure, ErrCodeDecode, err.Error(), details)
	}
	return nil, f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

// newFormatter builds the formatter for cmd. Verbose logs go to stderr to
// avoid corrupting JSON.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
