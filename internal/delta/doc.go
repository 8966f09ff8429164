// Package delta drives reduction passes to a fixpoint under an
// interestingness oracle.
//
// Each round applies every pass to a clone of the current module. A
// candidate whose content hash equals the current hash is recorded as
// unchanged without consulting the oracle; otherwise the oracle decides
// whether the candidate replaces the current module. The driver stops after
// a round that accepts nothing, after MaxRounds rounds, or when the context
// is done.
//
// Every attempt is stamped with a sequence number from a logical Clock and,
// when a Recorder is configured, written to the run log.
package delta
