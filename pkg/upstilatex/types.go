package upstilatex

import "strings"

// Severity classifies a diagnostic message.
//
// fatal_error means the document cannot be processed at all (unreadable
// source, unsupported legacy format). error means a field value was invalid
// and had no default to fall back to. warning means the value was invalid
// but recovered, or an unknown field was present. info is advisory only.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal_error"
)

// Diagnostic is a single message emitted during version detection,
// extraction or normalization. Diagnostics are advisory: processing
// continues past errors, only fatal_error aborts a document.
type Diagnostic struct {
	Message  string
	Severity Severity
}

// Diagnostics is an ordered sequence of diagnostics, in emission order.
type Diagnostics []Diagnostic

// Add appends a diagnostic and returns the extended slice.
func (d Diagnostics) Add(severity Severity, message string) Diagnostics {
	return append(d, Diagnostic{Message: message, Severity: severity})
}

// HasFatal reports whether the sequence contains a fatal_error diagnostic.
func (d Diagnostics) HasFatal() bool {
	for _, diag := range d {
		if diag.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with the given severity.
func (d Diagnostics) Count(severity Severity) int {
	n := 0
	for _, diag := range d {
		if diag.Severity == severity {
			n++
		}
	}
	return n
}

// Version identifies the detected document format.
type Version string

const (
	// VersionV2FrontMatter is the current generation: metadata lives in a
	// YAML front-matter block embedded in comment lines.
	VersionV2FrontMatter Version = "upsti-latex"

	// VersionV1Macro is the previous generation: metadata is declared
	// through \newcommand macros spread through the preamble.
	VersionV1Macro Version = "UPSTI_Document_v1"

	// VersionLegacy marks EPB_Document files, which are not supported.
	VersionLegacy Version = "EPB_Document"

	// VersionUnrecognized is returned when no known signature matched.
	VersionUnrecognized Version = ""
)

// Supported reports whether documents of this version can be normalized.
func (v Version) Supported() bool {
	return v == VersionV2FrontMatter || v == VersionV1Macro
}

// Provenance records how a normalized field obtained its final value.
//
// The base forms are explicit, default, deducted and ignored. default and
// ignored may carry a cause suffix separated by a colon, for example
// "default:wrong_type" or "ignored:unknown_key".
type Provenance string

const (
	ProvenanceExplicit Provenance = "explicit"
	ProvenanceDefault  Provenance = "default"
	ProvenanceDeducted Provenance = "deducted"
	ProvenanceIgnored  Provenance = "ignored"
)

// Provenance cause suffixes attached when a value had to be corrected.
const (
	CauseUnset          = "unset"            // field absent from the document
	CauseWrongType      = "wrong_type"       // value did not match the accepted types
	CauseValidation     = "validation"       // a structural rule rejected the value
	CauseBadCustomShape = "bad_custom_shape" // custom mapping keys did not match the declaration
	CauseUnknownKey     = "unknown_key"      // relational key absent from its catalog
)

// WithCause returns the provenance tagged with a cause suffix.
func (p Provenance) WithCause(cause string) Provenance {
	if cause == "" {
		return p
	}
	return Provenance(string(p) + ":" + cause)
}

// Base strips any cause suffix, returning the base provenance.
func (p Provenance) Base() Provenance {
	if i := strings.IndexByte(string(p), ':'); i >= 0 {
		return p[:i]
	}
	return p
}

// Cause returns the cause suffix, or "" when none is attached.
func (p Provenance) Cause() string {
	if i := strings.IndexByte(string(p), ':'); i >= 0 {
		return string(p[i+1:])
	}
	return ""
}

// DisplayHint marks a presentation nuance for a normalized field.
type DisplayHint string

// DisplayHintInformational marks a non-catalog custom value that the schema
// explicitly permits. Presentation layers render it in the info color.
const DisplayHintInformational DisplayHint = "informational"

// DocumentInfo describes one document discovered by the scanner.
type DocumentInfo struct {
	// Name is the file name without extension.
	Name string

	// Filename is the base file name including extension.
	Filename string

	// Path is the absolute path to the document.
	Path string

	// DisplayPath is a possibly truncated path for terminal output.
	DisplayPath string

	// Version is the detected document format.
	Version Version

	// Compatible reports whether the document can be processed.
	Compatible bool

	// Compile reports whether the document is flagged for batch compilation.
	Compile bool

	// Checksum is the SHA-256 of the document content, hex-encoded.
	Checksum string
}

// ScanResult aggregates the outcome of a directory scan.
type ScanResult struct {
	Documents   []DocumentInfo
	Diagnostics Diagnostics
}
