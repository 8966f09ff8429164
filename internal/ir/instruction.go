package ir

// Opcode names an instruction kind.
type Opcode string

const (
	OpGetElementPtr Opcode = "getelementptr"
	OpAlloca        Opcode = "alloca"
	OpLoad          Opcode = "load"
	OpStore         Opcode = "store"
	OpAdd           Opcode = "add"
	OpSub           Opcode = "sub"
	OpMul           Opcode = "mul"
	OpICmp          Opcode = "icmp"
	OpCall          Opcode = "call"
	OpRet           Opcode = "ret"
	OpBr            Opcode = "br"
)

// ValidOpcodes defines the opcodes accepted by *Inst.
var ValidOpcodes = map[Opcode]bool{
	OpAlloca: true,
	OpLoad:   true,
	OpStore:  true,
	OpAdd:    true,
	OpSub:    true,
	OpMul:    true,
	OpICmp:   true,
	OpCall:   true,
	OpRet:    true,
	OpBr:     true,
}

// Instruction is a sealed interface for IR instructions.
// Only *GetElementPtr and *Inst implement it.
type Instruction interface {
	Opcode() Opcode
	// Result is the name of the defined register, or "" for none.
	Result() string
	Operands() []Value
	String() string
	irInstruction() // Sealed
}

// GetElementPtr computes the address of an element inside an aggregate.
//
// Operands are [base, idx0, idx1, ...]. idx0 steps over whole source
// elements; idx1 (operand 2) selects a field when the source element type is
// a struct. Deeper indices select into nested aggregates.
type GetElementPtr struct {
	result   string
	source   Type
	operands []Value
	InBounds bool
}

func (*GetElementPtr) irInstruction() {}

// NewGetElementPtr creates a getelementptr over source with the given base
// pointer and indices.
func NewGetElementPtr(result string, source Type, base Value, indices ...Value) *GetElementPtr {
	ops := make([]Value, 0, len(indices)+1)
	ops = append(ops, base)
	ops = append(ops, indices...)
	return &GetElementPtr{result: result, source: source, operands: ops}
}

func (g *GetElementPtr) Opcode() Opcode { return OpGetElementPtr }
func (g *GetElementPtr) Result() string { return g.result }

// Operands returns the operand slice. The slice is shared; use SetOperand
// to replace an operand.
func (g *GetElementPtr) Operands() []Value { return g.operands }

// SourceElementType returns the type the indices walk over.
func (g *GetElementPtr) SourceElementType() Type { return g.source }

// SetSourceElementType replaces the source element type.
func (g *GetElementPtr) SetSourceElementType(t Type) { g.source = t }

// NumIndices returns the number of index operands (all operands but the base).
func (g *GetElementPtr) NumIndices() int {
	if len(g.operands) == 0 {
		return 0
	}
	return len(g.operands) - 1
}

// Operand returns operand i. Operand 0 is the base pointer.
// Panics if i is out of range.
func (g *GetElementPtr) Operand(i int) Value { return g.operands[i] }

// SetOperand replaces operand i.
// Panics if i is out of range.
func (g *GetElementPtr) SetOperand(i int, v Value) { g.operands[i] = v }

func (g *GetElementPtr) String() string { return NewPrinter(nil).Instruction(g) }

// Inst is any instruction other than getelementptr.
//
// Ty is the instruction's type parameter when the opcode has one: the
// allocated type for alloca, the loaded type for load, the return type for
// call. It may be nil.
type Inst struct {
	Op     Opcode
	Res    string
	Ty     Type
	Callee string // call only
	Ops    []Value
}

func (*Inst) irInstruction() {}

// NewInst creates a generic instruction.
func NewInst(op Opcode, result string, ty Type, operands ...Value) *Inst {
	return &Inst{Op: op, Res: result, Ty: ty, Ops: operands}
}

func (i *Inst) Opcode() Opcode { return i.Op }
func (i *Inst) Result() string { return i.Res }
func (i *Inst) Operands() []Value { return i.Ops }

func (i *Inst) String() string { return NewPrinter(nil).Instruction(i) }
