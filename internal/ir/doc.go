// Package ir provides the in-memory intermediate representation that the
// reduction passes operate on.
//
// This package contains the IR model only. All other internal packages
// import ir; ir imports nothing internal. This keeps IR the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Struct types are identified by handle (*StructType), never by layout.
//     Two structs with identical fields are distinct types.
//   - Struct types are immutable once created. Passes that change a layout
//     create a new type through Module.NewStructType.
//   - Field access goes through getelementptr. Operand 0 is the base pointer,
//     operand 1 selects the element, operand 2 selects the field.
//   - Logical sequence numbers only in run records, never wall-clock time.
package ir
