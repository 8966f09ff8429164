package reduce

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/xtgo/set"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/log"
)

// IndexMap maps an original field index to its index in the rebuilt type.
type IndexMap map[uint64]uint64

// Rebuild is the result of RebuildTypes.
type Rebuild struct {
	// Types maps each reducible type to its replacement.
	Types map[*ir.StructType]*ir.StructType
	// Indices holds the index map of each replacement, keyed by the
	// replacement type.
	Indices map[*ir.StructType]IndexMap
	// Order lists the original types in the order they were rebuilt.
	Order []*ir.StructType
}

// InvariantError reports an internal consistency fault in the struct pass.
// It is raised with panic: it means the analysis is wrong, not the input.
type InvariantError struct {
	Type    string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("struct reduction invariant violated for %s: %s", e.Type, e.Message)
}

// uint64Slice sorts field indices ascending.
type uint64Slice []uint64

func (s uint64Slice) Len() int           { return len(s) }
func (s uint64Slice) Less(i, j int) bool { return s[i] < s[j] }
func (s uint64Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// sortedUnique sorts indices ascending and removes duplicates in place.
func sortedUnique(indices []uint64) []uint64 {
	data := uint64Slice(indices)
	sort.Sort(data)
	n := set.Uniq(data)
	return indices[:n]
}

// RebuildTypes creates a reduced replacement in m for every reducible type
// recorded in u.
//
// For a type T with sorted unique indices L, the replacement has field j set
// to T's field L[j], carries T's name, and maps L[j] to j.
//
// Panics with *InvariantError if a reducible type has no indices or an
// index outside its fields.
func RebuildTypes(m *ir.Module, u *Usage) *Rebuild {
	return rebuildTypes(m, u, log.Discard())
}

func rebuildTypes(m *ir.Module, u *Usage, logger *slog.Logger) *Rebuild {
	rb := &Rebuild{
		Types:   make(map[*ir.StructType]*ir.StructType),
		Indices: make(map[*ir.StructType]IndexMap),
	}

	for _, rt := range u.Reducible() {
		t := rt.Type
		kept := sortedUnique(rt.Indices)
		if len(kept) == 0 {
			panic(&InvariantError{Type: t.String(), Message: "reducible with no observed indices"})
		}

		fields := make([]ir.Type, len(kept))
		indexMap := make(IndexMap, len(kept))
		for j, idx := range kept {
			ft, ok := t.TypeAtIndex(idx)
			if !ok {
				panic(&InvariantError{
					Type:    t.String(),
					Message: fmt.Sprintf("field index %d out of range (%d fields)", idx, t.NumFields()),
				})
			}
			fields[j] = ft
			indexMap[idx] = uint64(j)
		}

		replacement := m.NewStructType(t.Name(), fields...)
		rb.Types[t] = replacement
		rb.Indices[replacement] = indexMap
		rb.Order = append(rb.Order, t)

		logger.Debug("rebuilt struct",
			"type", t.String(), "fields_before", t.NumFields(), "fields_after", len(fields), "kept", kept)
	}

	return rb
}
