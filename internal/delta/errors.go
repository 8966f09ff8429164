package delta

import (
	"errors"
	"fmt"
)

// DriverError represents an error detected while driving a reduction.
//
// Driver errors include:
//   - Input not interesting: the oracle rejects the unmodified input
//   - Pass panicked: a pass violated an internal invariant
//   - Oracle failed: the oracle could not be evaluated
type DriverError struct {
	// Code identifies the error category.
	Code DriverErrorCode

	// Message is a human-readable description.
	Message string

	// Pass names the pass involved, if any.
	Pass string

	// Details contains additional context.
	Details map[string]string

	// Cause is the underlying error. For recovered panics it carries a
	// stack trace, printed with %+v.
	Cause error
}

// DriverErrorCode categorizes driver errors.
type DriverErrorCode string

const (
	// ErrCodeNoPasses indicates the driver was configured without passes.
	ErrCodeNoPasses DriverErrorCode = "NO_PASSES"

	// ErrCodeInputNotInteresting indicates the oracle rejects the input.
	ErrCodeInputNotInteresting DriverErrorCode = "INPUT_NOT_INTERESTING"

	// ErrCodePassPanicked indicates a pass panicked while applied to a candidate.
	ErrCodePassPanicked DriverErrorCode = "PASS_PANICKED"

	// ErrCodeOracleFailed indicates the oracle returned an error.
	ErrCodeOracleFailed DriverErrorCode = "ORACLE_FAILED"
)

// Error implements the error interface.
func (e *DriverError) Error() string {
	if e.Pass != "" {
		return fmt.Sprintf("%s: %s (pass=%s)", e.Code, e.Message, e.Pass)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DriverError) Unwrap() error { return e.Cause }

func hasCode(err error, code DriverErrorCode) bool {
	var de *DriverError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsNotInteresting returns true if the input was rejected by the oracle.
// Uses errors.As to handle wrapped errors.
func IsNotInteresting(err error) bool {
	return hasCode(err, ErrCodeInputNotInteresting)
}

// IsPassPanic returns true if the error is a recovered pass panic.
func IsPassPanic(err error) bool {
	return hasCode(err, ErrCodePassPanicked)
}

// IsOracleError returns true if the oracle failed.
func IsOracleError(err error) bool {
	return hasCode(err, ErrCodeOracleFailed)
}

// NewOracleError creates a DriverError for an oracle failure.
func NewOracleError(pass string, cause error) *DriverError {
	return &DriverError{
		Code:    ErrCodeOracleFailed,
		Message: fmt.Sprintf("oracle failed: %v", cause),
		Pass:    pass,
		Cause:   cause,
	}
}
