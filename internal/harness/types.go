package harness

import (
	"github.com/roach88/irreduce/internal/ir"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success: every expectation held.
	Pass bool `json:"pass"`

	// Run is the run as recorded in the run log.
	Run ir.ReductionRun `json:"run"`

	// Attempts is the attempt log read back from the run log, in seq order.
	Attempts []ir.ReductionAttempt `json:"attempts"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Input and Output are the module before and after reduction.
	Input  *ir.Module `json:"-"`
	Output *ir.Module `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Attempts: []ir.ReductionAttempt{},
		Errors:   []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
