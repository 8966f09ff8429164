package ir

// NOTE: These are run-log records, not part of the module model.
// Ordering uses logical sequence numbers, never timestamps.

// Attempt outcomes.
const (
	OutcomeAccepted  = "accepted"  // oracle kept the candidate
	OutcomeRejected  = "rejected"  // oracle rejected the candidate
	OutcomeUnchanged = "unchanged" // pass produced an identical module, oracle not consulted
	OutcomeFailed    = "failed"    // pass panicked, candidate discarded
)

// ValidOutcomes defines allowed attempt outcomes.
var ValidOutcomes = map[string]bool{
	OutcomeAccepted:  true,
	OutcomeRejected:  true,
	OutcomeUnchanged: true,
	OutcomeFailed:    true,
}

// ReductionRun represents one invocation of the reduction driver.
type ReductionRun struct {
	ID            string   `json:"id"`         // UUIDv7
	InputHash     string   `json:"input_hash"` // ModuleHash of the input
	Passes        []string `json:"passes"`
	StartedSeq    int64    `json:"started_seq"`
	Finished      bool     `json:"finished"`
	FinalHash     string   `json:"final_hash,omitempty"`
	AcceptedCount int      `json:"accepted_count"`
}

// ReductionAttempt represents one candidate produced by one pass.
type ReductionAttempt struct {
	RunID         string `json:"run_id"`
	Seq           int64  `json:"seq"` // Logical clock
	Round         int    `json:"round"`
	Pass          string `json:"pass"`
	CandidateHash string `json:"candidate_hash,omitempty"` // empty when the pass failed
	Outcome       string `json:"outcome"`
	SizeBefore    Stats  `json:"size_before"`
	SizeAfter     Stats  `json:"size_after"`
	Detail        string `json:"detail,omitempty"`
}
