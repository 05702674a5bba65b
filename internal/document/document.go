package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/upsti/upstilatex/internal/extractor"
	"github.com/upsti/upstilatex/internal/files/filesystem"
	"github.com/upsti/upstilatex/internal/metadata"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Document ties a source file to the schema and catalogs it is normalized
// against. Version detection and metadata extraction are cached; editing
// operations invalidate both caches.
type Document struct {
	file     *File
	schema   *metadata.Schema
	catalogs *metadata.Catalogs
	opts     metadata.Options

	version    upstilatex.Version
	versionSet bool

	records  metadata.Records
	metaDiag upstilatex.Diagnostics
	metaSet  bool
}

// New builds a Document over the given provider and path.
func New(provider filesystem.Provider, path string, schema *metadata.Schema, catalogs *metadata.Catalogs, opts metadata.Options) *Document {
	return &Document{
		file:     NewFile(provider, path),
		schema:   schema,
		catalogs: catalogs,
		opts:     opts,
	}
}

// Path returns the document path.
func (d *Document) Path() string {
	return d.file.Path()
}

// File exposes the underlying file state.
func (d *Document) File() *File {
	return d.file
}

// Version detects and caches the document format version.
func (d *Document) Version() (upstilatex.Version, upstilatex.Diagnostics, error) {
	if d.versionSet {
		return d.version, nil, nil
	}

	content, diags, err := d.file.Read()
	if err != nil {
		return upstilatex.VersionUnrecognized, diags, err
	}

	version, detectDiags := DetectVersion(content)
	d.version = version
	d.versionSet = true
	return version, append(diags, detectDiags...), nil
}

// Metadata extracts and normalizes the document metadata. The result is
// cached until the document is edited. Unsupported versions return
// ErrUnsupportedVersion alongside a fatal diagnostic.
func (d *Document) Metadata() (metadata.Records, upstilatex.Diagnostics, error) {
	if d.metaSet {
		return d.records, d.metaDiag, nil
	}

	version, diags, err := d.Version()
	if err != nil {
		return nil, diags, err
	}

	ext, err := extractor.ForVersion(version, d.schema, d.catalogs)
	if err != nil {
		diags = diags.Add(upstilatex.SeverityFatal, "document format is not supported")
		return nil, diags, err
	}

	content, _, err := d.file.Read()
	if err != nil {
		return nil, diags, err
	}

	raw, extractDiags := ext.Extract(content)
	diags = append(diags, extractDiags...)
	if extractDiags.HasFatal() {
		return nil, diags, &upstilatex.DocumentError{
			Path:    d.file.Path(),
			Message: "metadata extraction failed",
			Err:     upstilatex.ErrDocumentUnreadable,
		}
	}

	records, normDiags := metadata.Normalize(raw, d.schema, d.catalogs, d.opts)
	d.records = records
	d.metaDiag = append(diags, normDiags...)
	d.metaSet = true
	return d.records, d.metaDiag, nil
}

// SetMeta inserts or replaces one metadata value, using the editing
// strategy of the document's version.
func (d *Document) SetMeta(key string, value any) error {
	if !d.schema.Has(key) {
		return fmt.Errorf("unknown metadata field %q", key)
	}

	version, _, err := d.Version()
	if err != nil {
		return err
	}

	switch version {
	case upstilatex.VersionV2FrontMatter:
		return d.editFrontMatter(func(raw map[string]any) error {
			raw[key] = value
			return nil
		})
	case upstilatex.VersionV1Macro:
		return d.setMacro(key, value)
	default:
		return d.unsupported()
	}
}

// DeleteMeta removes one metadata value. Deleting an absent key is an error.
func (d *Document) DeleteMeta(key string) error {
	if !d.schema.Has(key) {
		return fmt.Errorf("unknown metadata field %q", key)
	}

	version, _, err := d.Version()
	if err != nil {
		return err
	}

	switch version {
	case upstilatex.VersionV2FrontMatter:
		return d.editFrontMatter(func(raw map[string]any) error {
			if _, ok := raw[key]; !ok {
				return fmt.Errorf("metadata field %q is not declared in the document", key)
			}
			delete(raw, key)
			return nil
		})
	case upstilatex.VersionV1Macro:
		return d.deleteMacro(key)
	default:
		return d.unsupported()
	}
}

// Upgrade converts a v1 document in place: the macro declarations become a
// commented YAML block at the top of the file.
func (d *Document) Upgrade() error {
	version, _, err := d.Version()
	if err != nil {
		return err
	}
	if version == upstilatex.VersionV2FrontMatter {
		return fmt.Errorf("document already uses the current format")
	}
	if version != upstilatex.VersionV1Macro {
		return d.unsupported()
	}

	content, _, err := d.file.Read()
	if err != nil {
		return err
	}

	macros := &extractor.Macros{Schema: d.schema, Catalogs: d.catalogs}
	raw, _ := macros.Extract(content)

	block, err := extractor.RenderBlock(raw)
	if err != nil {
		return err
	}

	stripped := d.stripKnownMacros(content)
	return d.writeContent(block + stripped)
}

func (d *Document) unsupported() error {
	return &upstilatex.DocumentError{
		Path:    d.file.Path(),
		Message: "document format is not supported",
		Err:     upstilatex.ErrUnsupportedVersion,
	}
}

// writeContent persists new content and drops every cache.
func (d *Document) writeContent(content string) error {
	if err := d.file.Write(content); err != nil {
		return err
	}
	d.versionSet = false
	d.metaSet = false
	d.records = nil
	d.metaDiag = nil
	return nil
}

// editFrontMatter rewrites the commented YAML block after applying edit to
// the decoded mapping.
func (d *Document) editFrontMatter(edit func(map[string]any) error) error {
	content, _, err := d.file.Read()
	if err != nil {
		return err
	}

	lines := strings.Split(content, "\n")
	begin, end := -1, -1
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if begin < 0 {
			if strings.HasPrefix(stripped, "%") && !strings.HasPrefix(stripped, "%%") &&
				strings.Contains(stripped, extractor.BeginSentinel) {
				begin = i
			}
			continue
		}
		if strings.Contains(stripped, extractor.EndSentinel) {
			end = i
			break
		}
	}
	if begin < 0 || end < 0 {
		return &upstilatex.DocumentError{
			Path:    d.file.Path(),
			Message: "no metadata block found",
			Err:     upstilatex.ErrDocumentUnreadable,
		}
	}

	raw, diags := (&extractor.FrontMatter{}).Extract(content)
	if diags.HasFatal() {
		return &upstilatex.DocumentError{
			Path:    d.file.Path(),
			Message: "invalid metadata block",
			Err:     upstilatex.ErrDocumentUnreadable,
		}
	}
	if err := edit(raw); err != nil {
		return err
	}

	block, err := extractor.RenderBlock(raw)
	if err != nil {
		return err
	}
	block = strings.TrimRight(block, "\n")

	rebuilt := append([]string{}, lines[:begin]...)
	rebuilt = append(rebuilt, strings.Split(block, "\n")...)
	rebuilt = append(rebuilt, lines[end+1:]...)
	return d.writeContent(strings.Join(rebuilt, "\n"))
}

// setMacro replaces the first live \newcommand declaration for the field,
// or inserts one after the UPSTI_Document package line.
func (d *Document) setMacro(key string, value any) error {
	texKey := d.schema.Field(key).TexKey
	if texKey == "" {
		return fmt.Errorf("metadata field %q cannot be declared as a macro", key)
	}

	content, _, err := d.file.Read()
	if err != nil {
		return err
	}

	declaration := fmt.Sprintf(`\newcommand{\%s}{%v}`, texKey, value)
	pattern := macroPattern(texKey)

	lines := strings.Split(content, "\n")
	replaced := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "%") {
			continue
		}
		if pattern.MatchString(line) {
			lines[i] = pattern.ReplaceAllString(line, declaration)
			replaced = true
			break
		}
	}

	if !replaced {
		inserted := false
		for i, line := range lines {
			stripped := strings.TrimSpace(line)
			if strings.HasPrefix(stripped, "%") {
				continue
			}
			if (strings.Contains(stripped, `\usepackage`) || strings.Contains(stripped, `\RequirePackage`)) &&
				strings.Contains(stripped, "UPSTI_Document") {
				lines = append(lines[:i+1], append([]string{declaration}, lines[i+1:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			lines = append([]string{declaration}, lines...)
		}
	}

	return d.writeContent(strings.Join(lines, "\n"))
}

// deleteMacro removes the live declaration for the field.
func (d *Document) deleteMacro(key string) error {
	texKey := d.schema.Field(key).TexKey
	if texKey == "" {
		return fmt.Errorf("metadata field %q cannot be declared as a macro", key)
	}

	content, _, err := d.file.Read()
	if err != nil {
		return err
	}

	pattern := macroPattern(texKey)
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	removed := false
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "%") && pattern.MatchString(line) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return fmt.Errorf("metadata field %q is not declared in the document", key)
	}

	return d.writeContent(strings.Join(kept, "\n"))
}

// stripKnownMacros drops every live declaration matching a schema tex_key.
func (d *Document) stripKnownMacros(content string) string {
	patterns := make([]*regexp.Regexp, 0)
	for _, field := range d.schema.Order() {
		if texKey := d.schema.Field(field).TexKey; texKey != "" {
			patterns = append(patterns, macroPattern(texKey))
		}
	}

	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		drop := false
		if !strings.HasPrefix(strings.TrimSpace(line), "%") {
			for _, pattern := range patterns {
				if pattern.MatchString(line) {
					drop = true
					break
				}
			}
		}
		if !drop {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func macroPattern(texKey string) *regexp.Regexp {
	return regexp.MustCompile(`\\newcommand\{\\` + regexp.QuoteMeta(texKey) + `\}\{[^{}]*\}`)
}
