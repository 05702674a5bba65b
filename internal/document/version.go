package document

import (
	"strings"

	"github.com/upsti/upstilatex/internal/extractor"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Format signatures of the macro-based generations.
const (
	v1Signature     = `\newcommand{\UPSTIidTypeDocument}`
	legacySignature = `\newcommand{\EPBIdTypeDocument}`
)

// DetectVersion classifies document content by scanning for the first
// matching format signature. The v2 sentinel lives in a single-% comment;
// macro signatures only count on non-comment lines.
func DetectVersion(content string) (upstilatex.Version, upstilatex.Diagnostics) {
	var diags upstilatex.Diagnostics

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		if strings.HasPrefix(stripped, "%") {
			if !strings.HasPrefix(stripped, "%%") && strings.Contains(stripped, extractor.BeginSentinel) {
				return upstilatex.VersionV2FrontMatter, diags
			}
			continue
		}

		if strings.Contains(stripped, v1Signature) {
			return upstilatex.VersionV1Macro, diags
		}
		if strings.Contains(stripped, legacySignature) {
			return upstilatex.VersionLegacy, diags
		}
	}

	diags = diags.Add(upstilatex.SeverityWarning, "unrecognized document format")
	return upstilatex.VersionUnrecognized, diags
}
