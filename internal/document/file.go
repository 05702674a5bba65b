package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/upsti/upstilatex/internal/files/filesystem"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// CheckMode selects how much of the file state Check verifies.
type CheckMode string

const (
	CheckExists CheckMode = "exists"
	CheckRead   CheckMode = "read"
	CheckWrite  CheckMode = "write"
)

// File is the on-disk state of one document source. Content is read once
// and cached; Write invalidates the cache.
type File struct {
	provider filesystem.Provider
	path     string

	content string
	loaded  bool
	latin1  bool
}

// NewFile wraps a document path. No I/O happens until Read or Check.
func NewFile(provider filesystem.Provider, path string) *File {
	return &File{provider: provider, path: path}
}

// Path returns the document path.
func (f *File) Path() string {
	return f.path
}

// HasDocumentExtension reports whether the path carries one of the accepted
// document extensions.
func (f *File) HasDocumentExtension() bool {
	switch strings.ToLower(filepath.Ext(f.path)) {
	case upstilatex.ExtensionTex, upstilatex.ExtensionLtx:
		return true
	}
	return false
}

// Read returns the decoded file content. Files containing a NUL byte in
// their first bytes are rejected as binary; invalid UTF-8 falls back to
// Latin-1 with a warning diagnostic.
func (f *File) Read() (string, upstilatex.Diagnostics, error) {
	var diags upstilatex.Diagnostics
	if f.loaded {
		if f.latin1 {
			diags = diags.Add(upstilatex.SeverityWarning, "file is not UTF-8, decoded as Latin-1")
		}
		return f.content, diags, nil
	}

	if !f.HasDocumentExtension() {
		return "", diags, &upstilatex.DocumentError{
			Path:    f.path,
			Message: "not a LaTeX document",
			Hint:    fmt.Sprintf("only %s and %s files are supported", upstilatex.ExtensionTex, upstilatex.ExtensionLtx),
			Err:     upstilatex.ErrDocumentUnreadable,
		}
	}

	raw, err := f.provider.ReadFile(f.path)
	if err != nil {
		return "", diags, &upstilatex.DocumentError{
			Path:    f.path,
			Message: "cannot read file",
			Err:     upstilatex.ErrDocumentNotFound,
		}
	}

	sniff := raw
	if len(sniff) > upstilatex.BinarySniffSize {
		sniff = sniff[:upstilatex.BinarySniffSize]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return "", diags, &upstilatex.DocumentError{
			Path:    f.path,
			Message: "file appears to be binary",
			Err:     upstilatex.ErrDocumentUnreadable,
		}
	}

	if utf8.Valid(raw) {
		f.content = string(raw)
	} else {
		f.content = decodeLatin1(raw)
		f.latin1 = true
		diags = diags.Add(upstilatex.SeverityWarning, "file is not UTF-8, decoded as Latin-1")
	}
	f.loaded = true
	return f.content, diags, nil
}

// Write replaces the file content and invalidates the cache.
func (f *File) Write(content string) error {
	if err := f.provider.CheckWritable(f.path); err != nil {
		return &upstilatex.DocumentError{
			Path:    f.path,
			Message: "cannot write file",
			Hint:    "check the file permissions",
			Err:     upstilatex.ErrDocumentNotWritable,
		}
	}
	if err := f.provider.WriteFile(f.path, []byte(content), 0o644); err != nil {
		return &upstilatex.DocumentError{
			Path:    f.path,
			Message: err.Error(),
			Err:     upstilatex.ErrDocumentNotWritable,
		}
	}
	f.loaded = false
	f.latin1 = false
	f.content = ""
	return nil
}

// Check verifies the file state for the given mode without mutating it.
func (f *File) Check(mode CheckMode) error {
	switch mode {
	case CheckExists:
		if _, err := f.provider.Stat(f.path); err != nil {
			return &upstilatex.DocumentError{
				Path:    f.path,
				Message: "file not found",
				Err:     upstilatex.ErrDocumentNotFound,
			}
		}
		return nil
	case CheckRead:
		_, _, err := f.Read()
		return err
	case CheckWrite:
		if err := f.Check(CheckExists); err != nil {
			return err
		}
		if err := f.provider.CheckWritable(f.path); err != nil {
			return &upstilatex.DocumentError{
				Path:    f.path,
				Message: "file not writable",
				Err:     upstilatex.ErrDocumentNotWritable,
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown check mode %q", mode)
	}
}

// decodeLatin1 maps each byte to the Unicode code point of the same value.
func decodeLatin1(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}
