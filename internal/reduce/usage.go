package reduce

import (
	"log/slog"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/log"
)

// fieldOperand is the getelementptr operand that selects a struct field:
// operand 0 is the base pointer, operand 1 the element index.
const fieldOperand = 2

// UsageKind classifies how a struct type's fields are accessed.
type UsageKind int

const (
	// Unseen: no multi-level field access of the type has been observed.
	Unseen UsageKind = iota
	// Reducible: every observed field access used a constant index.
	Reducible
	// NotReducible: at least one field access used a runtime index.
	// Absorbing: a type never leaves this state.
	NotReducible
)

func (k UsageKind) String() string {
	switch k {
	case Unseen:
		return "unseen"
	case Reducible:
		return "reducible"
	case NotReducible:
		return "not_reducible"
	default:
		return "unknown"
	}
}

// UsageState is the analysis state of one struct type.
// Indices is non-empty exactly when Kind is Reducible.
type UsageState struct {
	Kind    UsageKind
	indices []uint64
}

// Indices returns the observed constant field indices in observation order,
// duplicates included.
func (s UsageState) Indices() []uint64 {
	out := make([]uint64, len(s.indices))
	copy(out, s.indices)
	return out
}

// observeConstant records a constant field index. No-op once NotReducible.
func (s *UsageState) observeConstant(v uint64) {
	if s.Kind == NotReducible {
		return
	}
	s.Kind = Reducible
	s.indices = append(s.indices, v)
}

// observeRuntime moves the state to NotReducible, discarding any indices.
func (s *UsageState) observeRuntime() {
	s.Kind = NotReducible
	s.indices = nil
}

// Usage is the result of AnalyzeUsage: the state of every struct type that
// was the source of a multi-level field access.
type Usage struct {
	states map[*ir.StructType]*UsageState
	order  []*ir.StructType // first-seen order
}

// ReducibleType pairs a reducible struct with its raw observed indices.
type ReducibleType struct {
	Type    *ir.StructType
	Indices []uint64
}

// State returns the state of t. Types never accessed are Unseen.
func (u *Usage) State(t *ir.StructType) UsageState {
	if s, ok := u.states[t]; ok {
		return *s
	}
	return UsageState{Kind: Unseen}
}

// Types returns every observed struct type in first-seen order.
func (u *Usage) Types() []*ir.StructType {
	out := make([]*ir.StructType, len(u.order))
	copy(out, u.order)
	return out
}

// Reducible returns the reducible types in first-seen order with their raw
// indices (unsorted, possibly duplicated).
func (u *Usage) Reducible() []ReducibleType {
	var out []ReducibleType
	for _, t := range u.order {
		s := u.states[t]
		if s.Kind == Reducible {
			out = append(out, ReducibleType{Type: t, Indices: s.Indices()})
		}
	}
	return out
}

// AnalyzeUsage scans m once and classifies every struct type accessed by a
// getelementptr with at least two indices.
func AnalyzeUsage(m *ir.Module) *Usage {
	return analyzeUsage(m, log.Discard())
}

func analyzeUsage(m *ir.Module, logger *slog.Logger) *Usage {
	u := &Usage{states: make(map[*ir.StructType]*UsageState)}

	m.ForEachInstruction(func(f *ir.Function, inst ir.Instruction) {
		gep, ok := inst.(*ir.GetElementPtr)
		if !ok {
			return
		}
		st, ok := ir.IsStruct(gep.SourceElementType())
		if !ok || gep.NumIndices() < 2 {
			return
		}

		state, seen := u.states[st]
		if !seen {
			state = &UsageState{Kind: Unseen}
			u.states[st] = state
			u.order = append(u.order, st)
		}
		if state.Kind == NotReducible {
			return
		}

		if c, isConst := ir.AsConstantInt(gep.Operand(fieldOperand)); isConst {
			logger.Debug("constant field access",
				"function", f.Name, "type", st.String(), "index", c.ZExtValue())
			state.observeConstant(c.ZExtValue())
			return
		}

		logger.Debug("runtime field access disables reduction",
			"function", f.Name, "type", st.String(), "operand", gep.Operand(fieldOperand).String())
		state.observeRuntime()
	})

	return u
}
