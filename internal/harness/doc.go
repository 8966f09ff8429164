// Package harness runs reduction scenarios and checks their results.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: scenario_a
//	description: "Fields 1 and 3 of S survive"
//	module: ../modules/scenario_a.yaml
//	passes: [structs]
//	expect:
//	  accepted: 1
//	  structs:
//	    S: [i64, i32]
//	  unchanged: []
//
// The module path is resolved relative to the scenario file. passes
// defaults to every registered pass.
//
// # Expectations
//
//   - accepted: number of candidates the driver kept
//   - structs: the field types of a struct in the reduced module, by label
//   - unchanged: labels whose field list is the same before and after
//
// # Deterministic Testing
//
// Scenarios run with an accept-all oracle, a fixed run ID and a fresh
// in-memory run log, so the same scenario always produces the same attempts
// and the same reduced document. RunWithGolden compares that document against
// testdata/golden/<name>.golden.
package harness
