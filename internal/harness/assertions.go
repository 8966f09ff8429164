package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/irreduce/internal/ir"
)

// AssertionError is returned when an expectation fails.
// It includes the attempt log to help debug the failure.
type AssertionError struct {
	Type     string                // Expectation kind for categorization
	Expected string                // Human-readable expected outcome
	Actual   string                // Human-readable actual outcome
	Attempts []ir.ReductionAttempt // Full attempt log for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nAttempts:\n")
	for _, a := range e.Attempts {
		fmt.Fprintf(&buf, "  [%d] round %d %s: %s\n", a.Seq, a.Round, a.Pass, a.Outcome)
	}

	return buf.String()
}

// structFields returns the field types of every live struct in m by label.
func structFields(m *ir.Module) map[string][]string {
	p := ir.NewPrinter(m)
	out := make(map[string][]string)
	for _, st := range m.LiveStructTypes() {
		fields := make([]string, st.NumFields())
		for i := range fields {
			fields[i] = p.Type(st.Field(i))
		}
		out[p.Label(st)] = fields
	}
	return out
}

func labels(fields map[string][]string) []string {
	out := make([]string, 0, len(fields))
	for l := range fields {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// assertAccepted checks the number of accepted candidates.
func assertAccepted(r *Result, want int) error {
	if r.Run.AcceptedCount == want {
		return nil
	}
	return &AssertionError{
		Type:     "accepted",
		Expected: fmt.Sprintf("%d accepted candidates", want),
		Actual:   fmt.Sprintf("%d accepted candidates", r.Run.AcceptedCount),
		Attempts: r.Attempts,
	}
}

// assertStruct checks a struct's field types in the reduced module.
func assertStruct(r *Result, after map[string][]string, label string, want []string) error {
	got, ok := after[label]
	if !ok {
		return &AssertionError{
			Type:     "structs",
			Expected: fmt.Sprintf("struct %%%s in the reduced module", label),
			Actual:   fmt.Sprintf("struct labels %v", labels(after)),
			Attempts: r.Attempts,
		}
	}
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     "structs",
			Expected: fmt.Sprintf("%%%s fields %v", label, want),
			Actual:   fmt.Sprintf("%%%s fields %v", label, got),
			Attempts: r.Attempts,
		}
	}
	return nil
}

// assertUnchanged checks that a struct has the same fields before and after.
func assertUnchanged(r *Result, before, after map[string][]string, label string) error {
	orig, ok := before[label]
	if !ok {
		return &AssertionError{
			Type:     "unchanged",
			Expected: fmt.Sprintf("struct %%%s in the input module", label),
			Actual:   fmt.Sprintf("struct labels %v", labels(before)),
			Attempts: r.Attempts,
		}
	}
	got, ok := after[label]
	if !ok || !slices.Equal(orig, got) {
		return &AssertionError{
			Type:     "unchanged",
			Expected: fmt.Sprintf("%%%s fields %v", label, orig),
			Actual:   fmt.Sprintf("%%%s fields %v", label, got),
			Attempts: r.Attempts,
		}
	}
	return nil
}

// EvaluateExpectations checks r against e and returns one message per
// failed expectation. Struct expectations are checked in label order.
func EvaluateExpectations(r *Result, e Expectations) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if e.Accepted != nil {
		add(assertAccepted(r, *e.Accepted))
	}

	before := structFields(r.Input)
	after := structFields(r.Output)

	for _, label := range labels(e.Structs) {
		add(assertStruct(r, after, label, e.Structs[label]))
	}
	for _, label := range e.Unchanged {
		add(assertUnchanged(r, before, after, label))
	}

	return errs
}
