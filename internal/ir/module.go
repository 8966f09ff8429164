package ir

import "fmt"

// Module is an ordered collection of functions plus the struct types
// created in its scope.
type Module struct {
	Name      string
	Functions []*Function

	structs []*StructType
}

// Function is an ordered sequence of instructions.
type Function struct {
	Name         string
	Params       []*Register
	Instructions []Instruction
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// NewStructType creates a struct type owned by the module.
// Every call returns a distinct type, even for identical name and fields.
func (m *Module) NewStructType(name string, fields ...Type) *StructType {
	st := &StructType{
		name:   name,
		fields: append([]Type(nil), fields...),
	}
	m.structs = append(m.structs, st)
	return st
}

// StructTypes returns every struct type created in the module, in creation order.
func (m *Module) StructTypes() []*StructType {
	out := make([]*StructType, len(m.structs))
	copy(out, m.structs)
	return out
}

// AddFunction appends a new function to the module and returns it.
func (m *Module) AddFunction(name string, params ...*Register) *Function {
	f := &Function{Name: name, Params: params}
	m.Functions = append(m.Functions, f)
	return f
}

// Append adds instructions to the end of the function.
func (f *Function) Append(insts ...Instruction) {
	f.Instructions = append(f.Instructions, insts...)
}

// ForEachInstruction calls fn for every instruction, function by function,
// in order. Mutations made by fn are visible to later calls.
func (m *Module) ForEachInstruction(fn func(f *Function, inst Instruction)) {
	for _, f := range m.Functions {
		for _, inst := range f.Instructions {
			fn(f, inst)
		}
	}
}

// LiveStructTypes returns the struct types referenced from the module's
// functions, directly or through other struct and array types, in
// creation order.
func (m *Module) LiveStructTypes() []*StructType {
	live := make(map[*StructType]bool)
	var mark func(t Type)
	mark = func(t Type) {
		switch tt := t.(type) {
		case *StructType:
			if live[tt] {
				return
			}
			live[tt] = true
			for _, ft := range tt.fields {
				mark(ft)
			}
		case *ArrayType:
			mark(tt.Elem)
		}
	}
	markValue := func(v Value) {
		if v != nil {
			mark(v.Type())
		}
	}

	for _, f := range m.Functions {
		for _, p := range f.Params {
			mark(p.Ty)
		}
		for _, inst := range f.Instructions {
			switch in := inst.(type) {
			case *GetElementPtr:
				mark(in.source)
			case *Inst:
				if in.Ty != nil {
					mark(in.Ty)
				}
			}
			for _, op := range inst.Operands() {
				markValue(op)
			}
		}
	}

	var out []*StructType
	for _, st := range m.structs {
		if live[st] {
			out = append(out, st)
		}
	}
	return out
}

// Stats summarises module size. Only live struct types are counted.
type Stats struct {
	StructTypes  int `json:"struct_types"`
	StructFields int `json:"struct_fields"`
	Functions    int `json:"functions"`
	Instructions int `json:"instructions"`
}

// Stats computes size statistics for the module.
func (m *Module) Stats() Stats {
	var s Stats
	for _, st := range m.LiveStructTypes() {
		s.StructTypes++
		s.StructFields += st.NumFields()
	}
	s.Functions = len(m.Functions)
	for _, f := range m.Functions {
		s.Instructions += len(f.Instructions)
	}
	return s
}

// Verify checks the structural well-formedness the reduction passes rely on:
//   - every getelementptr has a base operand and a source type
//   - constant field indices into struct sources are in range
func (m *Module) Verify() error {
	for _, f := range m.Functions {
		for i, inst := range f.Instructions {
			gep, ok := inst.(*GetElementPtr)
			if !ok {
				continue
			}
			if gep.source == nil {
				return fmt.Errorf("function %s: instruction %d: getelementptr without source type", f.Name, i)
			}
			if len(gep.operands) == 0 {
				return fmt.Errorf("function %s: instruction %d: getelementptr without base operand", f.Name, i)
			}
			st, isStruct := gep.source.(*StructType)
			if !isStruct || gep.NumIndices() < 2 {
				continue
			}
			if c, isConst := gep.operands[2].(*ConstantInt); isConst {
				if _, inRange := st.TypeAtIndex(c.ZExtValue()); !inRange {
					return fmt.Errorf("function %s: instruction %d: field index %d out of range for %s with %d fields",
						f.Name, i, c.ZExtValue(), st, st.NumFields())
				}
			}
		}
	}
	return nil
}
