// Package irfile reads and writes modules as YAML, JSON or CUE documents.
//
// A document lists struct types by label and functions as instruction
// lists. Types and operands use a short textual syntax:
//
//	i32, ptr, void, [4 x i8], %Label   types
//	i32 1, ptr %p                      operands
//
// Decoding is strict: unknown keys, unknown labels and bad syntax are
// reported as *DecodeError with the offending field path. Encoding emits the
// live struct types of a module under the labels assigned by ir.Printer,
// so a module holding several types with the same name round-trips.
package irfile
