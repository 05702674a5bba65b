package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/upsti/upstilatex/internal/extractor"
)

// Calculator computes document checksums. The abstraction exists so tests
// can substitute a fixed implementation.
type Calculator interface {
	// CalculateRaw hashes the exact content.
	CalculateRaw(content []byte) string

	// CalculateNormalized hashes content with ordinary comments stripped
	// and whitespace collapsed. The sentinel-delimited metadata block is
	// kept even though its lines are comments, so metadata edits change
	// the checksum.
	CalculateNormalized(content []byte) string
}

// SHA256 is the production Calculator. Zero-size, safe for concurrent use.
type SHA256 struct{}

// New returns a SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw hashes the exact content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized hashes the normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256([]byte(c.normalize(string(content))))
	return hex.EncodeToString(hash[:])
}

// normalize strips comments, then collapses whitespace runs to single
// spaces and trims the result. Case is preserved, LaTeX is case-sensitive.
func (c SHA256) normalize(content string) string {
	cleaned := stripComments(content)

	var b strings.Builder
	b.Grow(len(cleaned))

	lastWasSpace := false
	for _, r := range cleaned {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return strings.TrimSpace(b.String())
}

// stripComments removes LaTeX comments: everything from an unescaped % to
// the end of the line. A \% escape is literal and kept. Lines inside the
// metadata front-matter block are kept verbatim: they are comment lines
// syntactically, but they carry the document's metadata and must stay
// visible to the checksum. Newlines are kept so line-sensitive constructs
// stay separated.
func stripComments(content string) string {
	lines := strings.Split(content, "\n")

	inBlock := false
	for i, line := range lines {
		switch {
		case !inBlock && strings.Contains(line, extractor.BeginSentinel):
			inBlock = true
		case inBlock:
			if strings.Contains(line, extractor.EndSentinel) {
				inBlock = false
			}
		default:
			lines[i] = stripLineComment(line)
		}
	}
	return strings.Join(lines, "\n")
}

// stripLineComment removes an unescaped % and everything after it on one
// line. Escapes never span lines in LaTeX, so the state is per line.
func stripLineComment(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			b.WriteByte(ch)
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			b.WriteByte(ch)
			escaped = true
		case '%':
			return b.String()
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
