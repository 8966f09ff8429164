package ir

import (
	"fmt"
	"strconv"
)

// Type is a sealed interface for IR types.
// Only IntType, PointerType, VoidType, *ArrayType and *StructType implement it.
type Type interface {
	String() string
	irType() // Sealed
}

// IntType is a fixed-width integer type.
type IntType struct {
	Bits int
}

func (IntType) irType() {}

func (t IntType) String() string {
	return "i" + strconv.Itoa(t.Bits)
}

// Common integer types.
var (
	I1  = IntType{Bits: 1}
	I8  = IntType{Bits: 8}
	I16 = IntType{Bits: 16}
	I32 = IntType{Bits: 32}
	I64 = IntType{Bits: 64}
)

// PointerType is an opaque pointer.
type PointerType struct{}

func (PointerType) irType() {}

func (PointerType) String() string { return "ptr" }

// Ptr is the opaque pointer type.
var Ptr = PointerType{}

// VoidType is the type of instructions that produce no value.
type VoidType struct{}

func (VoidType) irType() {}

func (VoidType) String() string { return "void" }

// Void is the void type.
var Void = VoidType{}

// ArrayType is a fixed-length sequence of a single element type.
type ArrayType struct {
	Len  uint64
	Elem Type
}

func (*ArrayType) irType() {}

func (t *ArrayType) String() string {
	return fmt.Sprintf("[%d x %s]", t.Len, t.Elem)
}

// NewArrayType creates an array type.
func NewArrayType(n uint64, elem Type) *ArrayType {
	return &ArrayType{Len: n, Elem: elem}
}

// StructType is an aggregate with an ordered sequence of field types.
//
// Identity is the handle: compare *StructType values with ==, never by
// field layout. A StructType cannot be modified after creation; use
// Module.NewStructType to build a replacement.
type StructType struct {
	name   string
	fields []Type
}

func (*StructType) irType() {}

// String renders the struct reference as "%Name", or "%anon" when unnamed.
func (t *StructType) String() string {
	if t.name == "" {
		return "%anon"
	}
	return "%" + t.name
}

// Name returns the declared name, which may be empty.
func (t *StructType) Name() string { return t.name }

// NumFields returns the number of fields.
func (t *StructType) NumFields() int { return len(t.fields) }

// Field returns the type of field i.
// Panics if i is out of range.
func (t *StructType) Field(i int) Type { return t.fields[i] }

// TypeAtIndex returns the type of field idx and whether idx is in range.
func (t *StructType) TypeAtIndex(idx uint64) (Type, bool) {
	if idx >= uint64(len(t.fields)) {
		return nil, false
	}
	return t.fields[idx], true
}

// Fields returns a copy of the field types.
func (t *StructType) Fields() []Type {
	out := make([]Type, len(t.fields))
	copy(out, t.fields)
	return out
}

// IsStruct reports whether t is a struct type and returns it.
func IsStruct(t Type) (*StructType, bool) {
	st, ok := t.(*StructType)
	return st, ok
}

// SameLayout reports whether two types are structurally identical.
// Struct fields are compared recursively. This is for tests and
// diagnostics; type tables must key on identity, not on layout.
func SameLayout(a, b Type) bool {
	switch at := a.(type) {
	case *StructType:
		bt, ok := b.(*StructType)
		if !ok || len(at.fields) != len(bt.fields) {
			return false
		}
		for i := range at.fields {
			if !SameLayout(at.fields[i], bt.fields[i]) {
				return false
			}
		}
		return true
	case *ArrayType:
		bt, ok := b.(*ArrayType)
		return ok && at.Len == bt.Len && SameLayout(at.Elem, bt.Elem)
	default:
		return a == b
	}
}
