// Package testutil provides module fixtures and deterministic helpers
// shared by package tests.
package testutil

import (
	"github.com/roach88/irreduce/internal/ir"
)

// Base is the pointer register every fixture access goes through.
func Base() *ir.Register { return ir.NewRegister("p", ir.Ptr) }

// ConstField returns "%result = getelementptr source, ptr %p, i64 0, i32 field".
func ConstField(result string, source ir.Type, field uint64) *ir.GetElementPtr {
	return ir.NewGetElementPtr(result, source, Base(),
		ir.NewConstantInt(ir.I64, 0), ir.NewConstantInt(ir.I32, field))
}

// RuntimeField returns "%result = getelementptr source, ptr %p, i64 0, i32 %reg".
func RuntimeField(result string, source ir.Type, reg string) *ir.GetElementPtr {
	return ir.NewGetElementPtr(result, source, Base(),
		ir.NewConstantInt(ir.I64, 0), ir.NewRegister(reg, ir.I32))
}

// Element returns a single-index access "%result = getelementptr source, ptr %p, i64 idx".
func Element(result string, source ir.Type, idx uint64) *ir.GetElementPtr {
	return ir.NewGetElementPtr(result, source, Base(), ir.NewConstantInt(ir.I64, idx))
}

// FieldIndex returns the constant value of a getelementptr's field operand.
// Panics if the operand is missing or not constant.
func FieldIndex(inst ir.Instruction) uint64 {
	c, ok := ir.AsConstantInt(inst.(*ir.GetElementPtr).Operand(2))
	if !ok {
		panic("testutil.FieldIndex: field operand is not constant")
	}
	return c.ZExtValue()
}

// Source returns a getelementptr's source element type.
func Source(inst ir.Instruction) ir.Type {
	return inst.(*ir.GetElementPtr).SourceElementType()
}

// ScenarioA builds a module where S{i32, i64, i8, i32} is accessed only at
// constant fields 1 and 3.
func ScenarioA() (*ir.Module, *ir.StructType) {
	m := ir.NewModule("scenario_a")
	s := m.NewStructType("S", ir.I32, ir.I64, ir.I8, ir.I32)

	f := m.AddFunction("main", Base())
	f.Append(
		ConstField("f1", s, 1),
		ir.NewInst(ir.OpLoad, "v1", ir.I64, ir.NewRegister("f1", ir.Ptr)),
		ConstField("f3", s, 3),
		ir.NewInst(ir.OpLoad, "v3", ir.I32, ir.NewRegister("f3", ir.Ptr)),
		ir.NewInst(ir.OpRet, "", nil, ir.NewRegister("v3", ir.I32)),
	)
	return m, s
}

// ScenarioB builds a module where S{i32, i64, i8} is accessed once at
// constant field 2 and once at a runtime index.
func ScenarioB() (*ir.Module, *ir.StructType) {
	m := ir.NewModule("scenario_b")
	s := m.NewStructType("S", ir.I32, ir.I64, ir.I8)

	f := m.AddFunction("main", Base(), ir.NewRegister("i", ir.I32))
	f.Append(
		ConstField("f2", s, 2),
		RuntimeField("fi", s, "i"),
		ir.NewInst(ir.OpRet, "", nil),
	)
	return m, s
}

// ScenarioC builds a module where S{i32, i64} is only reached through
// single-index accesses and an alloca.
func ScenarioC() (*ir.Module, *ir.StructType) {
	m := ir.NewModule("scenario_c")
	s := m.NewStructType("S", ir.I32, ir.I64)

	f := m.AddFunction("main", Base())
	f.Append(
		ir.NewInst(ir.OpAlloca, "a", s),
		Element("e", s, 1),
		ir.NewInst(ir.OpRet, "", nil),
	)
	return m, s
}
