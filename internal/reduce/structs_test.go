package reduce

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/log"
	"github.com/roach88/irreduce/internal/testutil"
)

func TestReduceStructs_ScenarioA(t *testing.T) {
	m, s := testutil.ScenarioA()

	ReduceStructs(m)

	insts := m.Functions[0].Instructions
	reduced, ok := ir.IsStruct(testutil.Source(insts[0]))
	require.True(t, ok)
	assert.NotSame(t, s, reduced)
	assert.Equal(t, "S", reduced.Name())
	assert.Equal(t, []ir.Type{ir.I64, ir.I32}, reduced.Fields())
	assert.Equal(t, uint64(0), testutil.FieldIndex(insts[0]))
	assert.Same(t, reduced, testutil.Source(insts[2]))
	assert.Equal(t, uint64(1), testutil.FieldIndex(insts[2]))

	assert.Equal(t, []*ir.StructType{reduced}, m.LiveStructTypes(), "original type is no longer referenced")
	assert.Equal(t, 4, s.NumFields())
	assert.NoError(t, m.Verify())
}

func TestReduceStructs_ScenarioB(t *testing.T) {
	m, s := testutil.ScenarioB()
	before := ir.MustModuleHash(m)

	ReduceStructs(m)

	assert.Len(t, m.StructTypes(), 1, "no replacement type is created")
	for _, inst := range m.Functions[0].Instructions[:2] {
		assert.Same(t, s, testutil.Source(inst))
	}
	assert.Equal(t, uint64(2), testutil.FieldIndex(m.Functions[0].Instructions[0]))
	assert.Equal(t, before, ir.MustModuleHash(m))
}

func TestReduceStructs_ScenarioC(t *testing.T) {
	m, s := testutil.ScenarioC()
	before := ir.MustModuleHash(m)

	ReduceStructs(m)

	assert.Len(t, m.StructTypes(), 1)
	assert.Same(t, s, m.Functions[0].Instructions[0].(*ir.Inst).Ty)
	assert.Same(t, s, testutil.Source(m.Functions[0].Instructions[1]))
	assert.Equal(t, before, ir.MustModuleHash(m))
}

func TestReduceStructs_Idempotent(t *testing.T) {
	m, _ := testutil.ScenarioA()

	ReduceStructs(m)
	once := ir.MustModuleHash(m)
	ReduceStructs(m)

	assert.Equal(t, once, ir.MustModuleHash(m))
}

func TestReduceStructs_StructurallyEqualTypesIndependent(t *testing.T) {
	m := ir.NewModule("m")
	a := m.NewStructType("S", ir.I32, ir.I64, ir.I8)
	b := m.NewStructType("S", ir.I32, ir.I64, ir.I8)
	m.AddFunction("f", testutil.Base(), ir.NewRegister("i", ir.I32)).Append(
		testutil.ConstField("x", a, 2),
		testutil.RuntimeField("y", b, "i"),
		testutil.ConstField("z", b, 0),
	)

	ReduceStructs(m)

	insts := m.Functions[0].Instructions
	reducedA, _ := ir.IsStruct(testutil.Source(insts[0]))
	assert.Equal(t, []ir.Type{ir.I8}, reducedA.Fields())
	assert.Same(t, b, testutil.Source(insts[1]))
	assert.Same(t, b, testutil.Source(insts[2]))
	assert.Equal(t, uint64(0), testutil.FieldIndex(insts[2]))
}

func TestReduceStructs_UnaccessedTypesUnchanged(t *testing.T) {
	m := ir.NewModule("m")
	s := m.NewStructType("S", ir.I32, ir.I64)
	m.AddFunction("f", ir.NewRegister("arg", s)).Append(ir.NewInst(ir.OpRet, "", nil))

	ReduceStructs(m)

	assert.Equal(t, []*ir.StructType{s}, m.StructTypes())
}

func TestReduceStructs_DuplicateIndices(t *testing.T) {
	m := ir.NewModule("m")
	s := m.NewStructType("S", ir.I8, ir.I16, ir.I32)
	m.AddFunction("f", testutil.Base()).Append(
		testutil.ConstField("a", s, 2),
		testutil.ConstField("b", s, 2),
		testutil.ConstField("c", s, 0),
	)

	ReduceStructs(m)

	insts := m.Functions[0].Instructions
	reduced, _ := ir.IsStruct(testutil.Source(insts[0]))
	assert.Equal(t, []ir.Type{ir.I8, ir.I32}, reduced.Fields())
	assert.Equal(t, []uint64{1, 1, 0}, []uint64{
		testutil.FieldIndex(insts[0]), testutil.FieldIndex(insts[1]), testutil.FieldIndex(insts[2]),
	})
}

func TestStructPass_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	m, _ := testutil.ScenarioA()

	p := &StructPass{Logger: log.New(&buf, slog.LevelInfo)}
	assert.Equal(t, "structs", p.Name())
	p.Apply(m)

	assert.Equal(t,
		"level=INFO msg=\"struct reduction applied\" section=reduce.structs module=scenario_a observed=1 rebuilt=1 rewritten=2 skipped=0\n",
		buf.String())
}

func TestStructPass_DebugRecordsObservations(t *testing.T) {
	var buf bytes.Buffer
	m, _ := testutil.ScenarioB()

	(&StructPass{Logger: log.New(&buf, slog.LevelDebug)}).Apply(m)

	out := buf.String()
	assert.Contains(t, out, "msg=\"constant field access\" section=reduce.structs function=main type=%S index=2")
	assert.Contains(t, out, "msg=\"runtime field access disables reduction\"")
}

func TestPlan(t *testing.T) {
	m := ir.NewModule("m")
	a := m.NewStructType("A", ir.I32, ir.I64, ir.I8, ir.I32)
	b := m.NewStructType("B", ir.I32, ir.I64)
	m.AddFunction("f", testutil.Base(), ir.NewRegister("i", ir.I32)).Append(
		testutil.RuntimeField("x", b, "i"),
		testutil.ConstField("y", a, 3),
		testutil.ConstField("z", a, 1),
		testutil.ConstField("w", a, 3),
	)
	before := ir.MustModuleHash(m)

	plans := Plan(m)

	require.Len(t, plans, 2)
	assert.Equal(t, TypePlan{Type: b, Kind: NotReducible, Before: 2, After: 2}, plans[0])
	assert.Equal(t, TypePlan{Type: a, Kind: Reducible, Kept: []uint64{1, 3}, Before: 4, After: 2}, plans[1])
	assert.Equal(t, before, ir.MustModuleHash(m), "plan does not mutate")
	assert.Len(t, m.StructTypes(), 2)
}
