package delta

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/irfile"
)

// Oracle decides whether a candidate module still exhibits the behaviour
// being reduced for.
type Oracle interface {
	Interesting(ctx context.Context, m *ir.Module) (bool, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, m *ir.Module) (bool, error)

// Interesting implements Oracle.
func (f OracleFunc) Interesting(ctx context.Context, m *ir.Module) (bool, error) {
	return f(ctx, m)
}

// AcceptAll is an oracle that finds every module interesting.
var AcceptAll Oracle = OracleFunc(func(context.Context, *ir.Module) (bool, error) {
	return true, nil
})

// ExecOracle runs an external test command on each candidate.
//
// The candidate is written to a temporary file in Format and its path is
// appended to Args. Exit status 0 means interesting, any other exit status
// means not interesting. Failing to start the command is an error.
type ExecOracle struct {
	Command string
	Args    []string
	Format  irfile.Format // default yaml
	Dir     string        // temp directory; default os.TempDir()
}

var _ Oracle = (*ExecOracle)(nil)

// Interesting implements Oracle.
func (o *ExecOracle) Interesting(ctx context.Context, m *ir.Module) (bool, error) {
	format := o.Format
	if format == "" {
		format = irfile.FormatYAML
	}
	data, err := irfile.Marshal(format, m)
	if err != nil {
		return false, fmt.Errorf("encoding candidate: %w", err)
	}

	f, err := os.CreateTemp(o.Dir, "irreduce-*."+string(format))
	if err != nil {
		return false, fmt.Errorf("creating candidate file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, fmt.Errorf("writing candidate file: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("writing candidate file: %w", err)
	}

	args := append(append([]string(nil), o.Args...), path)
	cmd := exec.CommandContext(ctx, o.Command, args...)
	err = cmd.Run()
	if err == nil {
		return true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("running %s: %w", o.Command, err)
}
