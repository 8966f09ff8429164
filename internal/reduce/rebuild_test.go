package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreduce/internal/ir"
)

func reducibleUsage(t *ir.StructType, indices ...uint64) *Usage {
	return &Usage{
		states: map[*ir.StructType]*UsageState{t: {Kind: Reducible, indices: indices}},
		order:  []*ir.StructType{t},
	}
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []uint64{0, 1, 3}, sortedUnique([]uint64{3, 1, 3, 0, 1}))
	assert.Empty(t, sortedUnique(nil))
}

func TestRebuildTypes_KeepsObservedFields(t *testing.T) {
	m := ir.NewModule("m")
	s := m.NewStructType("S", ir.I32, ir.I64, ir.I8, ir.I32)

	rb := RebuildTypes(m, reducibleUsage(s, 3, 1, 3))

	replacement := rb.Types[s]
	require.NotNil(t, replacement)
	assert.NotSame(t, s, replacement)
	assert.Equal(t, "S", replacement.Name())
	assert.Equal(t, []ir.Type{ir.I64, ir.I32}, replacement.Fields())
	assert.Equal(t, IndexMap{1: 0, 3: 1}, rb.Indices[replacement])
	assert.Equal(t, []*ir.StructType{s}, rb.Order)

	assert.Equal(t, 4, s.NumFields(), "original type is not modified")
	assert.Len(t, m.StructTypes(), 2)
}

func TestRebuildTypes_IndexMapPreservesRank(t *testing.T) {
	m := ir.NewModule("m")
	s := m.NewStructType("S", ir.I8, ir.I16, ir.I32, ir.I64, ir.I1, ir.Ptr)

	rb := RebuildTypes(m, reducibleUsage(s, 5, 0, 2, 4))
	im := rb.Indices[rb.Types[s]]

	for oldA, newA := range im {
		for oldB, newB := range im {
			if oldA < oldB {
				assert.Less(t, newA, newB, "%d < %d must be preserved", oldA, oldB)
			}
		}
		ft, _ := s.TypeAtIndex(oldA)
		assert.Equal(t, ft, rb.Types[s].Field(int(newA)))
	}
}

func TestRebuildTypes_FullSpanStillCreatesType(t *testing.T) {
	m := ir.NewModule("m")
	s := m.NewStructType("S", ir.I32, ir.I64)

	rb := RebuildTypes(m, reducibleUsage(s, 1, 0))

	replacement := rb.Types[s]
	assert.NotSame(t, s, replacement)
	assert.True(t, ir.SameLayout(s, replacement))
	assert.Equal(t, IndexMap{0: 0, 1: 1}, rb.Indices[replacement])
}

func TestRebuildTypes_SkipsNonReducible(t *testing.T) {
	m := ir.NewModule("m")
	a := m.NewStructType("A", ir.I32)
	b := m.NewStructType("B", ir.I32)
	u := &Usage{
		states: map[*ir.StructType]*UsageState{
			a: {Kind: NotReducible},
			b: {Kind: Unseen},
		},
		order: []*ir.StructType{a, b},
	}

	rb := RebuildTypes(m, u)
	assert.Empty(t, rb.Types)
	assert.Empty(t, rb.Order)
	assert.Len(t, m.StructTypes(), 2)
}

func TestRebuildTypes_InvariantViolations(t *testing.T) {
	t.Run("no indices", func(t *testing.T) {
		m := ir.NewModule("m")
		s := m.NewStructType("S", ir.I32)

		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(*InvariantError)
			require.True(t, ok, "panic value %T", r)
			assert.Equal(t, "%S", err.Type)
			assert.Contains(t, err.Error(), "no observed indices")
		}()
		RebuildTypes(m, reducibleUsage(s))
	})

	t.Run("index out of range", func(t *testing.T) {
		m := ir.NewModule("m")
		s := m.NewStructType("S", ir.I32, ir.I64)

		defer func() {
			r := recover()
			err, ok := r.(*InvariantError)
			require.True(t, ok, "panic value %T", r)
			assert.Equal(t,
				"struct reduction invariant violated for %S: field index 5 out of range (2 fields)",
				err.Error())
		}()
		RebuildTypes(m, reducibleUsage(s, 0, 5))
	})
}
