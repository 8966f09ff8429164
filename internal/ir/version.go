package ir

// Version constants for the module document schema and the reducer.
const (
	// IRVersion is the module document schema version.
	IRVersion = "1"

	// ReducerVersion is the irreduce tool version.
	ReducerVersion = "0.1.0"
)
