package upstilatex

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := doc.Metadata()
//	if errors.Is(err, upstilatex.ErrUnsupportedVersion) {
//	    // Handle a legacy EPB document
//	}
var (
	// ErrInvalidConfig indicates the environment or schema configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDocumentNotFound indicates the document path does not exist or is not a file.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentUnreadable indicates the document is binary or cannot be decoded.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrDocumentNotWritable indicates the document cannot be opened for writing.
	ErrDocumentNotWritable = errors.New("document not writable")

	// ErrUnsupportedVersion indicates the document format is legacy or unrecognized.
	ErrUnsupportedVersion = errors.New("unsupported document version")

	// ErrApprovalDenied indicates the user cancelled a batch operation.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrNotImplemented indicates a feature is not yet implemented.
	ErrNotImplemented = errors.New("not implemented")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrDocumentNotFound), errors.Is(err, ErrDocumentUnreadable):
		return ExitUnreadable
	case errors.Is(err, ErrDocumentNotWritable):
		return ExitWriteFailed
	case errors.Is(err, ErrUnsupportedVersion):
		return ExitUnsupportedVersion
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	}

	return ExitGeneralError
}

// DocumentError is a structured error carrying the document path and an
// actionable hint for the user.
type DocumentError struct {
	Path    string // Path to the document with the error
	Message string // Primary error message
	Hint    string // Actionable suggestion for fixing, optional
	Err     error  // Underlying sentinel, optional
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Path, e.Message)
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	return msg
}

// Unwrap exposes the underlying sentinel to errors.Is.
func (e *DocumentError) Unwrap() error {
	return e.Err
}
