package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/testutil"
)

func TestRewriteAccesses_RemapsConstantFields(t *testing.T) {
	m, s := testutil.ScenarioA()
	rb := RebuildTypes(m, AnalyzeUsage(m))
	replacement := rb.Types[s]

	stats := RewriteAccesses(m, rb)
	assert.Equal(t, RewriteStats{Rewritten: 2}, stats)

	insts := m.Functions[0].Instructions
	assert.Same(t, replacement, testutil.Source(insts[0]))
	assert.Equal(t, uint64(0), testutil.FieldIndex(insts[0]))
	assert.Same(t, replacement, testutil.Source(insts[2]))
	assert.Equal(t, uint64(1), testutil.FieldIndex(insts[2]))
}

func TestRewriteAccesses_PreservesIndexType(t *testing.T) {
	m := ir.NewModule("m")
	s := m.NewStructType("S", ir.I32, ir.I64, ir.I8)
	gep := ir.NewGetElementPtr("x", s, testutil.Base(), ir.NewConstantInt(ir.I64, 0), ir.NewConstantInt(ir.I64, 2))
	m.AddFunction("f", testutil.Base()).Append(gep)

	ReduceStructs(m)

	c, ok := ir.AsConstantInt(gep.Operand(2))
	require.True(t, ok)
	assert.Equal(t, ir.I64, c.IntType())
	assert.Equal(t, uint64(0), c.ZExtValue())
	assert.Equal(t, "i64 0", gep.Operand(1).String(), "element index untouched")
}

func TestRewriteAccesses_LeavesNestedIndices(t *testing.T) {
	m := ir.NewModule("m")
	inner := m.NewStructType("In", ir.I8, ir.I16)
	s := m.NewStructType("S", ir.I32, ir.NewArrayType(4, inner))
	gep := ir.NewGetElementPtr("x", s, testutil.Base(),
		ir.NewConstantInt(ir.I64, 0), ir.NewConstantInt(ir.I32, 1),
		ir.NewConstantInt(ir.I64, 3), ir.NewConstantInt(ir.I32, 1))
	m.AddFunction("f", testutil.Base()).Append(gep)

	ReduceStructs(m)

	assert.Equal(t, "%x = getelementptr %S, ptr %p, i64 0, i32 0, i64 3, i32 1", gep.String())
	rebuilt, ok := ir.IsStruct(gep.SourceElementType())
	require.True(t, ok)
	assert.Equal(t, 1, rebuilt.NumFields())
	assert.Same(t, inner, rebuilt.Field(0).(*ir.ArrayType).Elem, "nested struct is kept as is")
}

func TestRewriteAccesses_SkipsUnmappable(t *testing.T) {
	m := ir.NewModule("m")
	s := m.NewStructType("S", ir.I32, ir.I64, ir.I8)
	single := testutil.Element("e", s, 1)
	runtime := testutil.RuntimeField("r", s, "i")
	missing := testutil.ConstField("x", s, 2)
	m.AddFunction("f", testutil.Base(), ir.NewRegister("i", ir.I32)).Append(single, runtime, missing)

	replacement := m.NewStructType("S", ir.I64)
	rb := &Rebuild{
		Types:   map[*ir.StructType]*ir.StructType{s: replacement},
		Indices: map[*ir.StructType]IndexMap{replacement: {1: 0}},
		Order:   []*ir.StructType{s},
	}

	stats := RewriteAccesses(m, rb)
	assert.Equal(t, RewriteStats{Skipped: 3}, stats)
	for _, inst := range m.Functions[0].Instructions {
		assert.Same(t, s, testutil.Source(inst))
	}
	assert.Equal(t, uint64(2), testutil.FieldIndex(missing))
}

func TestRewriteAccesses_MissingIndexMap(t *testing.T) {
	m := ir.NewModule("m")
	s := m.NewStructType("S", ir.I32, ir.I64)
	gep := testutil.ConstField("x", s, 1)
	m.AddFunction("f", testutil.Base()).Append(gep)

	rb := &Rebuild{
		Types:   map[*ir.StructType]*ir.StructType{s: m.NewStructType("S", ir.I64)},
		Indices: map[*ir.StructType]IndexMap{},
	}

	assert.Equal(t, RewriteStats{Skipped: 1}, RewriteAccesses(m, rb))
	assert.Same(t, s, gep.SourceElementType())
}

func TestRewriteAccesses_EmptyRebuild(t *testing.T) {
	m, s := testutil.ScenarioA()
	stats := RewriteAccesses(m, &Rebuild{})
	assert.Zero(t, stats)
	assert.Same(t, s, testutil.Source(m.Functions[0].Instructions[0]))
}
