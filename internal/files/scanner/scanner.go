package scanner

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/upsti/upstilatex/internal/checksum"
	"github.com/upsti/upstilatex/internal/document"
	"github.com/upsti/upstilatex/internal/files/filesystem"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Options configures one scan.
type Options struct {
	// Roots are the directories to walk.
	Roots []string

	// Excludes are doublestar glob patterns matched against the
	// slash-separated path relative to each root.
	Excludes []string

	// IncludeIncompatible keeps legacy and unrecognized documents in the
	// result instead of only reporting them as diagnostics.
	IncludeIncompatible bool
}

// Scanner discovers documents. Safe for concurrent use when the provider
// and calculator are.
type Scanner struct {
	calculator checksum.Calculator
	provider   filesystem.Provider
}

// New creates a scanner. Panics if either dependency is nil, construction
// is programmer error territory.
func New(calculator checksum.Calculator, provider filesystem.Provider) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if provider == nil {
		panic("provider cannot be nil")
	}
	return &Scanner{calculator: calculator, provider: provider}
}

// Scan walks every root and returns the discovered documents sorted by
// path. Unreadable or binary files become diagnostics, never errors: one
// bad file must not abort a batch scan.
func (s *Scanner) Scan(opts Options) (upstilatex.ScanResult, error) {
	var result upstilatex.ScanResult

	for _, root := range opts.Roots {
		dir, err := s.provider.Open(root)
		if err != nil {
			return upstilatex.ScanResult{}, fmt.Errorf("open scan root: %w", err)
		}

		err = dir.Walk(func(file filesystem.File, walkErr error) error {
			if walkErr != nil {
				return fmt.Errorf("walk %s: %w", root, walkErr)
			}
			if file.Info().IsDir() {
				return nil
			}
			if !hasDocumentExtension(file.Path()) {
				return nil
			}
			if excluded(file.RelativePath(), opts.Excludes) {
				return nil
			}

			s.collect(file, opts, &result)
			return nil
		})
		if err != nil {
			return upstilatex.ScanResult{}, err
		}
	}

	sort.Slice(result.Documents, func(i, j int) bool {
		return result.Documents[i].Path < result.Documents[j].Path
	})
	return result, nil
}

// collect classifies one candidate file and appends it to the result.
func (s *Scanner) collect(file filesystem.File, opts Options, result *upstilatex.ScanResult) {
	content, err := file.ReadContent()
	if err != nil {
		result.Diagnostics = result.Diagnostics.Add(upstilatex.SeverityError,
			fmt.Sprintf("%s: cannot read file", file.Path()))
		return
	}

	sniff := content
	if len(sniff) > upstilatex.BinarySniffSize {
		sniff = sniff[:upstilatex.BinarySniffSize]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		result.Diagnostics = result.Diagnostics.Add(upstilatex.SeverityWarning,
			fmt.Sprintf("%s: binary file skipped", file.Path()))
		return
	}

	version, _ := document.DetectVersion(string(content))
	compatible := version.Supported()
	if !compatible {
		result.Diagnostics = result.Diagnostics.Add(upstilatex.SeverityWarning,
			fmt.Sprintf("%s: incompatible document (version %q)", file.Path(), string(version)))
		if !opts.IncludeIncompatible {
			return
		}
	}

	filename := filepath.Base(file.Path())
	result.Documents = append(result.Documents, upstilatex.DocumentInfo{
		Name:        strings.TrimSuffix(filename, filepath.Ext(filename)),
		Filename:    filename,
		Path:        file.Path(),
		DisplayPath: DisplayPath(file.Path()),
		Version:     version,
		Compatible:  compatible,
		Checksum:    s.calculator.CalculateNormalized(content),
	})
}

func hasDocumentExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case upstilatex.ExtensionTex, upstilatex.ExtensionLtx:
		return true
	}
	return false
}

func excluded(relPath string, patterns []string) bool {
	rel := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// DisplayPath truncates long paths from the left, keeping the tail which
// carries the file name. The cut is made on rune boundaries; accented
// directory names must not produce invalid UTF-8.
func DisplayPath(path string) string {
	runes := []rune(path)
	if len(runes) <= upstilatex.MaxDisplayPathLength {
		return path
	}
	return "…" + string(runes[len(runes)-upstilatex.MaxDisplayPathLength+1:])
}
