package cli

// Error codes reported in CLI output.
const (
	// General errors (E0xx)
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Input file not found
	ErrCodeUnsupported = "E003" // Unsupported file extension
	ErrCodeDecode      = "E004" // Module document malformed
	ErrCodeWriteFailed = "E005" // Output write error
	ErrCodeStore       = "E006" // Run log error
	ErrCodeBadFlag     = "E007" // Invalid flag value

	// Reduction errors (E1xx)
	ErrCodeNotInteresting = "E101" // Oracle rejects the input
	ErrCodeOracle         = "E102" // Oracle could not run
	ErrCodeUnknownPass    = "E103" // --pass names no registered pass
	ErrCodeCancelled      = "E104" // Interrupted before reaching a fixpoint

	// History errors (E2xx)
	ErrCodeRunNotFound = "E201" // --run names no run in the log
)
