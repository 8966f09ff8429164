package ir

import "strconv"

// Value is a sealed interface for instruction operands.
// Only *ConstantInt and *Register implement it.
type Value interface {
	Type() Type
	String() string
	irValue() // Sealed
}

// ConstantInt is an integer whose value is fixed at compile time.
// The value is stored zero-extended to 64 bits.
type ConstantInt struct {
	typ   IntType
	value uint64
}

func (*ConstantInt) irValue() {}

// NewConstantInt creates an integer constant of the given type.
func NewConstantInt(t IntType, v uint64) *ConstantInt {
	return &ConstantInt{typ: t, value: v}
}

// Type returns the integer type of the constant.
func (c *ConstantInt) Type() Type { return c.typ }

// IntType returns the integer type of the constant.
func (c *ConstantInt) IntType() IntType { return c.typ }

// ZExtValue returns the constant zero-extended to 64 bits.
func (c *ConstantInt) ZExtValue() uint64 { return c.value }

func (c *ConstantInt) String() string {
	return c.typ.String() + " " + strconv.FormatUint(c.value, 10)
}

// Register is a runtime value: a function parameter or an instruction result.
type Register struct {
	Name string
	Ty   Type
}

func (*Register) irValue() {}

// NewRegister creates a named runtime value.
func NewRegister(name string, t Type) *Register {
	return &Register{Name: name, Ty: t}
}

// Type returns the register's type.
func (r *Register) Type() Type { return r.Ty }

func (r *Register) String() string {
	return r.Ty.String() + " %" + r.Name
}

// AsConstantInt reports whether v is an integer constant and returns it.
func AsConstantInt(v Value) (*ConstantInt, bool) {
	c, ok := v.(*ConstantInt)
	return c, ok
}
