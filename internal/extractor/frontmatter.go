package extractor

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Sentinels delimiting the YAML metadata block of v2 documents. The block
// lives inside LaTeX comments, one "%" per line, so the file stays
// compilable by any TeX engine.
const (
	BeginSentinel = "%### BEGIN metadonnees_yaml ###"
	EndSentinel   = "%### END metadonnees_yaml ###"
)

// FrontMatter extracts metadata from the commented YAML block of v2
// documents.
type FrontMatter struct{}

// Extract collects the %-prefixed lines between the sentinels, strips the
// comment prefix and unmarshals the result.
func (*FrontMatter) Extract(content string) (map[string]any, upstilatex.Diagnostics) {
	var diags upstilatex.Diagnostics

	var block []string
	inBlock := false
	terminated := false

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if !inBlock {
			if isMetaComment(stripped) && strings.Contains(stripped, BeginSentinel) {
				inBlock = true
			}
			continue
		}
		if strings.Contains(stripped, EndSentinel) {
			terminated = true
			break
		}
		block = append(block, uncomment(stripped))
	}

	if !inBlock {
		diags = diags.Add(upstilatex.SeverityFatal, "no metadata block found")
		return nil, diags
	}
	if !terminated {
		diags = diags.Add(upstilatex.SeverityFatal, "metadata block is not terminated")
		return nil, diags
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &raw); err != nil {
		diags = diags.Add(upstilatex.SeverityFatal, fmt.Sprintf("invalid YAML in metadata block: %v", err))
		return nil, diags
	}
	return raw, diags
}

// isMetaComment reports whether a line is a single-% comment. Double-%
// comments are reserved for editor folding markers and never carry metadata.
func isMetaComment(line string) bool {
	return strings.HasPrefix(line, "%") && !strings.HasPrefix(line, "%%")
}

// uncomment strips the leading comment marker and at most one following
// space, preserving YAML indentation.
func uncomment(line string) string {
	line = strings.TrimPrefix(line, "%")
	return strings.TrimPrefix(line, " ")
}

// RenderBlock writes a metadata mapping back as a commented YAML block,
// sentinels included. Used when editing or upgrading documents.
func RenderBlock(raw map[string]any) (string, error) {
	encoded, err := yaml.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("encode metadata block: %w", err)
	}

	var b strings.Builder
	b.WriteString(BeginSentinel + "\n")
	for _, line := range strings.Split(strings.TrimRight(string(encoded), "\n"), "\n") {
		b.WriteString("% " + line + "\n")
	}
	b.WriteString(EndSentinel + "\n")
	return b.String(), nil
}
