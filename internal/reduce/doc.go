// Package reduce implements the module reduction passes run by the delta
// driver.
//
// A pass mutates a module in place and returns nothing. Whether the result
// is kept is decided outside the pass: the driver runs each pass on a private
// clone, asks the oracle whether the clone still reproduces the failure, and
// keeps or discards the whole candidate.
//
// # Struct field reduction
//
// StructPass shrinks struct types to the fields reached through constant
// field indices. It runs in three stages over two full traversals:
//
//   - AnalyzeUsage scans every getelementptr and classifies each struct type
//     as Reducible (with the constant field indices seen) or NotReducible
//     (some access uses a runtime index). NotReducible is absorbing.
//   - RebuildTypes creates, for each reducible type, a new struct under the
//     same name holding only the referenced fields, plus an old-to-new index
//     map.
//   - RewriteAccesses scans again and points every constant access of a
//     rebuilt type at the new type and index.
//
// The decision for a type is final only after every use has been seen: a
// runtime index late in the module disqualifies a type whose earlier
// accesses were all constant. A streaming single-pass version would produce
// partial, inconsistent reductions.
//
// Only the first field-selecting index (operand 2) is considered. Deeper
// indices into nested aggregates are neither analysed nor rewritten; their
// field types are carried into the new struct unchanged.
package reduce
