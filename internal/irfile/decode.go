package irfile

import (
	"errors"
	"fmt"

	"github.com/roach88/irreduce/internal/ir"
)

// Decode builds a module from doc.
//
// Struct types are created in dependency order: a type's fields are
// resolved before the type itself, so field references may point forward in
// the document. Reference cycles are rejected. Each label becomes the name
// of its type. The built module must pass ir.Module.Verify.
func Decode(doc *Document) (*ir.Module, error) {
	if doc.Module == "" {
		return nil, errorf("module", "module name is required")
	}

	m := ir.NewModule(doc.Module)
	b := &typeBuilder{
		m:        m,
		decls:    make(map[string]int, len(doc.Types)),
		doc:      doc,
		built:    make(map[string]*ir.StructType, len(doc.Types)),
		visiting: make(map[string]bool),
	}
	for i, td := range doc.Types {
		field := fmt.Sprintf("types[%d]", i)
		if td.Name == "" {
			return nil, errorf(field+".name", "type name is required")
		}
		if _, dup := b.decls[td.Name]; dup {
			return nil, errorf(field+".name", "duplicate type label %q", td.Name)
		}
		b.decls[td.Name] = i
	}
	for _, td := range doc.Types {
		if _, err := b.build(td.Name); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(doc.Functions))
	for i, fd := range doc.Functions {
		field := fmt.Sprintf("functions[%d]", i)
		if fd.Name == "" {
			return nil, errorf(field+".name", "function name is required")
		}
		if seen[fd.Name] {
			return nil, errorf(field+".name", "duplicate function %q", fd.Name)
		}
		seen[fd.Name] = true

		if err := decodeFunction(m, fd, field, b.lookup); err != nil {
			return nil, err
		}
	}

	if err := m.Verify(); err != nil {
		return nil, errorf("module", "%v", err)
	}
	return m, nil
}

// typeBuilder creates struct types on demand by depth-first resolution.
type typeBuilder struct {
	m        *ir.Module
	doc      *Document
	decls    map[string]int
	built    map[string]*ir.StructType
	visiting map[string]bool
}

// lookup resolves a label to an already built type.
func (b *typeBuilder) lookup(label string) (*ir.StructType, error) {
	if st, ok := b.built[label]; ok {
		return st, nil
	}
	return nil, fmt.Errorf("unknown struct type %%%s", label)
}

func (b *typeBuilder) build(label string) (*ir.StructType, error) {
	if st, ok := b.built[label]; ok {
		return st, nil
	}
	idx, ok := b.decls[label]
	if !ok {
		return nil, fmt.Errorf("unknown struct type %%%s", label)
	}
	if b.visiting[label] {
		return nil, fmt.Errorf("struct type %%%s contains itself", label)
	}
	b.visiting[label] = true
	defer delete(b.visiting, label)

	td := b.doc.Types[idx]
	fields := make([]ir.Type, len(td.Fields))
	for j, fs := range td.Fields {
		ft, err := parseType(fs, b.build)
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				return nil, de
			}
			return nil, errorf(fmt.Sprintf("types[%d].fields[%d]", idx, j), "%v", err)
		}
		fields[j] = ft
	}

	st := b.m.NewStructType(td.Name, fields...)
	b.built[label] = st
	return st, nil
}

func decodeFunction(m *ir.Module, fd FunctionDecl, field string, resolve resolver) error {
	params := make([]*ir.Register, len(fd.Params))
	for j, ps := range fd.Params {
		r, err := parseRegister(ps, resolve)
		if err != nil {
			return errorf(fmt.Sprintf("%s.params[%d]", field, j), "%v", err)
		}
		params[j] = r
	}

	f := m.AddFunction(fd.Name, params...)
	for j, id := range fd.Instructions {
		inst, err := decodeInstruction(id, fmt.Sprintf("%s.instructions[%d]", field, j), resolve)
		if err != nil {
			return err
		}
		f.Append(inst)
	}
	return nil
}

func decodeInstruction(id InstructionDecl, field string, resolve resolver) (ir.Instruction, error) {
	operands := make([]ir.Value, len(id.Operands))
	for k, s := range id.Operands {
		v, err := parseValue(s, resolve)
		if err != nil {
			return nil, errorf(fmt.Sprintf("%s.operands[%d]", field, k), "%v", err)
		}
		operands[k] = v
	}

	op := ir.Opcode(id.Op)
	if op == ir.OpGetElementPtr {
		if id.Source == "" {
			return nil, errorf(field+".source", "getelementptr requires a source type")
		}
		src, err := parseType(id.Source, resolve)
		if err != nil {
			return nil, errorf(field+".source", "%v", err)
		}
		if len(operands) == 0 {
			return nil, errorf(field+".operands", "getelementptr requires a base operand")
		}
		if id.Type != "" || id.Callee != "" {
			return nil, errorf(field, "getelementptr takes no type or callee")
		}
		gep := ir.NewGetElementPtr(id.Result, src, operands[0], operands[1:]...)
		gep.InBounds = id.InBounds
		return gep, nil
	}

	if !ir.ValidOpcodes[op] {
		return nil, errorf(field+".op", "unknown opcode %q", id.Op)
	}
	if id.Source != "" || id.InBounds {
		return nil, errorf(field, "%s takes no source or inbounds", id.Op)
	}
	if id.Callee != "" && op != ir.OpCall {
		return nil, errorf(field+".callee", "%s takes no callee", id.Op)
	}

	var ty ir.Type
	if id.Type != "" {
		t, err := parseType(id.Type, resolve)
		if err != nil {
			return nil, errorf(field+".type", "%v", err)
		}
		ty = t
	}

	inst := ir.NewInst(op, id.Result, ty, operands...)
	inst.Callee = id.Callee
	return inst, nil
}
