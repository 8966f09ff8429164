package irfile

import (
	"github.com/roach88/irreduce/internal/ir"
)

// Encode converts m to a document.
// Only live struct types are emitted, in creation order.
func Encode(m *ir.Module) *Document {
	p := ir.NewPrinter(m)
	doc := &Document{Module: m.Name, Functions: []FunctionDecl{}}

	for _, st := range m.LiveStructTypes() {
		fields := make([]string, st.NumFields())
		for i := range fields {
			fields[i] = p.Type(st.Field(i))
		}
		doc.Types = append(doc.Types, TypeDecl{Name: p.Label(st), Fields: fields})
	}

	for _, f := range m.Functions {
		fd := FunctionDecl{Name: f.Name, Instructions: []InstructionDecl{}}
		for _, r := range f.Params {
			fd.Params = append(fd.Params, p.Value(r))
		}
		for _, inst := range f.Instructions {
			fd.Instructions = append(fd.Instructions, encodeInstruction(p, inst))
		}
		doc.Functions = append(doc.Functions, fd)
	}
	return doc
}

func encodeInstruction(p *ir.Printer, inst ir.Instruction) InstructionDecl {
	id := InstructionDecl{Result: inst.Result(), Op: string(inst.Opcode())}
	for _, v := range inst.Operands() {
		id.Operands = append(id.Operands, p.Value(v))
	}

	switch in := inst.(type) {
	case *ir.GetElementPtr:
		id.InBounds = in.InBounds
		id.Source = p.Type(in.SourceElementType())
	case *ir.Inst:
		if in.Ty != nil {
			id.Type = p.Type(in.Ty)
		}
		id.Callee = in.Callee
	}
	return id
}
