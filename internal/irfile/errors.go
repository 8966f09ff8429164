package irfile

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// DecodeError reports a malformed document.
// Field is a path into the document such as "functions[0].instructions[2]".
// Pos is set for CUE inputs when the error has a source position.
type DecodeError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *DecodeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func errorf(field, format string, args ...any) *DecodeError {
	return &DecodeError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &DecodeError{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	de := &DecodeError{Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		de.Pos = positions[0]
	}
	return de
}
