package reduce

import (
	"log/slog"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/log"
)

// StructPassName is the registry name of StructPass.
const StructPassName = "structs"

// StructPass shrinks struct types to the fields reached through constant
// field indices. See the package documentation for the algorithm.
type StructPass struct {
	// Logger receives debug records for every observation and rebuild.
	// nil discards them.
	Logger *slog.Logger
}

var _ Pass = (*StructPass)(nil)

// Name implements Pass.
func (p *StructPass) Name() string { return StructPassName }

// Apply implements Pass: analyze, rebuild, rewrite.
func (p *StructPass) Apply(m *ir.Module) {
	logger := log.Section(p.Logger, "reduce."+StructPassName)

	usage := analyzeUsage(m, logger)
	rb := rebuildTypes(m, usage, logger)
	stats := rewriteAccesses(m, rb, logger)

	logger.Info("struct reduction applied",
		"module", m.Name,
		"observed", len(usage.order),
		"rebuilt", len(rb.Order),
		"rewritten", stats.Rewritten,
		"skipped", stats.Skipped)
}

// ReduceStructs applies StructPass to m without logging.
func ReduceStructs(m *ir.Module) {
	(&StructPass{}).Apply(m)
}

// TypePlan describes what StructPass would do to one struct type.
type TypePlan struct {
	Type   *ir.StructType
	Kind   UsageKind
	Kept   []uint64 // sorted unique field indices kept; nil unless Reducible
	Before int      // field count before
	After  int      // field count after; equals Before unless Reducible
}

// Plan analyses m without mutating it and reports, for every struct type
// that was the source of a multi-level field access, the layout StructPass
// would produce. Types appear in first-seen order.
func Plan(m *ir.Module) []TypePlan {
	usage := AnalyzeUsage(m)

	plans := make([]TypePlan, 0, len(usage.order))
	for _, t := range usage.order {
		s := usage.State(t)
		plan := TypePlan{Type: t, Kind: s.Kind, Before: t.NumFields(), After: t.NumFields()}
		if s.Kind == Reducible {
			plan.Kept = sortedUnique(s.Indices())
			plan.After = len(plan.Kept)
		}
		plans = append(plans, plan)
	}
	return plans
}
