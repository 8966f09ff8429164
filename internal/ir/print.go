package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders types, values and instructions with unique struct labels.
//
// Struct names are not unique: a reduction pass creates a replacement type
// under the original name while the original may still be referenced. The
// printer gives the first type with a given name the bare name and later
// ones a ".N" suffix, in the order they are first labelled.
type Printer struct {
	labels  map[*StructType]string
	used    map[string]bool
	counter map[string]int
}

// NewPrinter creates a printer whose labels follow the creation order of the
// module's live struct types. m may be nil.
func NewPrinter(m *Module) *Printer {
	p := &Printer{
		labels:  make(map[*StructType]string),
		used:    make(map[string]bool),
		counter: make(map[string]int),
	}
	if m != nil {
		for _, st := range m.LiveStructTypes() {
			p.Label(st)
		}
	}
	return p
}

// Label returns the unique label for st, assigning one on first use.
func (p *Printer) Label(st *StructType) string {
	if l, ok := p.labels[st]; ok {
		return l
	}
	base := st.name
	if base == "" {
		base = "anon"
	}
	label := base
	for p.used[label] {
		label = base + "." + strconv.Itoa(p.counter[base])
		p.counter[base]++
	}
	p.used[label] = true
	p.labels[st] = label
	return label
}

// Type renders t, using labels for struct references.
func (p *Printer) Type(t Type) string {
	switch tt := t.(type) {
	case *StructType:
		return "%" + p.Label(tt)
	case *ArrayType:
		return fmt.Sprintf("[%d x %s]", tt.Len, p.Type(tt.Elem))
	case nil:
		return "<nil>"
	default:
		return t.String()
	}
}

// Value renders an operand as "<type> <value>".
func (p *Printer) Value(v Value) string {
	switch vv := v.(type) {
	case *ConstantInt:
		return vv.typ.String() + " " + strconv.FormatUint(vv.value, 10)
	case *Register:
		return p.Type(vv.Ty) + " %" + vv.Name
	default:
		return "<nil>"
	}
}

// Instruction renders inst in a single line.
func (p *Printer) Instruction(inst Instruction) string {
	var sb strings.Builder
	if r := inst.Result(); r != "" {
		fmt.Fprintf(&sb, "%%%s = ", r)
	}

	switch in := inst.(type) {
	case *GetElementPtr:
		sb.WriteString(string(OpGetElementPtr))
		if in.InBounds {
			sb.WriteString(" inbounds")
		}
		sb.WriteString(" ")
		sb.WriteString(p.Type(in.source))
		for _, op := range in.operands {
			sb.WriteString(", ")
			sb.WriteString(p.Value(op))
		}
	case *Inst:
		sb.WriteString(string(in.Op))
		sep := " "
		if in.Ty != nil {
			sb.WriteString(" ")
			sb.WriteString(p.Type(in.Ty))
			sep = ", "
		}
		if in.Callee != "" {
			fmt.Fprintf(&sb, " @%s", in.Callee)
			sep = ", "
		}
		for _, op := range in.Ops {
			sb.WriteString(sep)
			sb.WriteString(p.Value(op))
			sep = ", "
		}
	}
	return sb.String()
}
