package ir

// Clone returns a deep copy of the module.
//
// Every struct type gets a fresh handle in the copy, created in the same
// order. Two types that are distinct in m stay distinct in the copy, and
// two uses of the same type in m use the same type in the copy. Constants
// are immutable and shared.
func (m *Module) Clone() *Module {
	out := NewModule(m.Name)
	structMap := make(map[*StructType]*StructType, len(m.structs))

	var mapType func(t Type) Type
	mapType = func(t Type) Type {
		switch tt := t.(type) {
		case *StructType:
			if mapped, ok := structMap[tt]; ok {
				return mapped
			}
			// Types are created after their field types, so a miss means
			// the type belongs to another module. Keep it as is.
			return tt
		case *ArrayType:
			return NewArrayType(tt.Len, mapType(tt.Elem))
		default:
			return t
		}
	}

	for _, st := range m.structs {
		fields := make([]Type, len(st.fields))
		for i, ft := range st.fields {
			fields[i] = mapType(ft)
		}
		structMap[st] = out.NewStructType(st.name, fields...)
	}

	mapValue := func(v Value) Value {
		switch vv := v.(type) {
		case *Register:
			return NewRegister(vv.Name, mapType(vv.Ty))
		default:
			return v
		}
	}
	mapValues := func(vs []Value) []Value {
		if vs == nil {
			return nil
		}
		out := make([]Value, len(vs))
		for i, v := range vs {
			out[i] = mapValue(v)
		}
		return out
	}

	for _, f := range m.Functions {
		params := make([]*Register, len(f.Params))
		for i, p := range f.Params {
			params[i] = NewRegister(p.Name, mapType(p.Ty))
		}
		nf := out.AddFunction(f.Name, params...)
		nf.Instructions = make([]Instruction, 0, len(f.Instructions))
		for _, inst := range f.Instructions {
			switch in := inst.(type) {
			case *GetElementPtr:
				nf.Append(&GetElementPtr{
					result:   in.result,
					source:   mapType(in.source),
					operands: mapValues(in.operands),
					InBounds: in.InBounds,
				})
			case *Inst:
				var ty Type
				if in.Ty != nil {
					ty = mapType(in.Ty)
				}
				nf.Append(&Inst{
					Op:     in.Op,
					Res:    in.Res,
					Ty:     ty,
					Callee: in.Callee,
					Ops:    mapValues(in.Ops),
				})
			}
		}
	}
	return out
}
