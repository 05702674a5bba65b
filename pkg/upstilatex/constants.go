package upstilatex

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess            = 0  // Command completed successfully
	ExitGeneralError       = 1  // Unknown or unclassified error
	ExitUsageError         = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic              = 3  // Internal panic (unexpected crash)
	ExitConfigError        = 10 // Invalid configuration or schema resource
	ExitUnreadable         = 11 // Document missing, binary, or undecodable
	ExitApprovalDenied     = 12 // User cancelled a batch operation
	ExitUnsupportedVersion = 13 // Legacy or unrecognized document format
	ExitWriteFailed        = 14 // Document could not be modified
)

const (
	// DocumentExtensions lists the file extensions accepted as documents.
	// Anything else is rejected before any content inspection.
	ExtensionTex = ".tex"
	ExtensionLtx = ".ltx"

	// BinarySniffSize is how many leading bytes are inspected when deciding
	// whether a file is binary.
	BinarySniffSize = 4096

	// MaxDisplayPathLength is the width documents paths are truncated to in
	// terminal listings.
	MaxDisplayPathLength = 88
)
