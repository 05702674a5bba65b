package extractor

import (
	"fmt"

	"github.com/upsti/upstilatex/internal/metadata"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Extractor parses the raw metadata mapping out of document content.
// Implementations never fail hard: syntax problems become diagnostics and a
// nil mapping.
type Extractor interface {
	Extract(content string) (map[string]any, upstilatex.Diagnostics)
}

// ForVersion returns the extraction strategy for a document version.
// Legacy and unrecognized versions have no strategy and return
// ErrUnsupportedVersion.
func ForVersion(version upstilatex.Version, schema *metadata.Schema, catalogs *metadata.Catalogs) (Extractor, error) {
	switch version {
	case upstilatex.VersionV2FrontMatter:
		return &FrontMatter{}, nil
	case upstilatex.VersionV1Macro:
		return &Macros{Schema: schema, Catalogs: catalogs}, nil
	default:
		return nil, fmt.Errorf("%w: %q", upstilatex.ErrUnsupportedVersion, string(version))
	}
}
