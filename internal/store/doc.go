// Package store provides the SQLite-backed run log.
//
// The log is append-only:
//   - Runs: one row per driver invocation, closed by FinishRun
//   - Attempts: one row per pass application, UNIQUE(run_id, seq)
//
// All ordering uses seq (the driver's logical clock), never timestamps, so a
// log reads back in the order it was written. Writes are idempotent:
// re-recording an attempt with the same (run_id, seq) is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Module sizes and pass lists are stored as canonical JSON produced by
// ir.MarshalCanonical.
package store
