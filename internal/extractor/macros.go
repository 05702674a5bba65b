package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/upsti/upstilatex/internal/metadata"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Macros extracts metadata from the \newcommand declarations of v1
// documents. Each schema field with a tex_key maps one macro to one field.
type Macros struct {
	Schema   *metadata.Schema
	Catalogs *metadata.Catalogs
}

// newcommandPattern matches \newcommand{\Name}{value}. Values with nested
// braces are not supported by the v1 format.
var newcommandPattern = regexp.MustCompile(`\\newcommand\{\\([A-Za-z@]+)\}\{([^{}]*)\}`)

// Extract scans non-comment lines for macro declarations and maps them back
// to schema fields. All extracted values are strings; later pipeline stages
// coerce booleans where the schema asks for it.
func (m *Macros) Extract(content string) (map[string]any, upstilatex.Diagnostics) {
	var diags upstilatex.Diagnostics
	diags = diags.Add(upstilatex.SeverityWarning,
		"metadata declared with \\newcommand macros; the upgrade command converts this document to YAML front matter")

	fieldByTexKey := map[string]string{}
	for _, field := range m.Schema.Order() {
		if texKey := m.Schema.Field(field).TexKey; texKey != "" {
			fieldByTexKey[texKey] = field
		}
	}

	raw := map[string]any{}
	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "%") {
			continue
		}
		for _, match := range newcommandPattern.FindAllStringSubmatch(stripped, -1) {
			field, known := fieldByTexKey[match[1]]
			if !known {
				continue
			}
			raw[field] = m.resolveMacroValue(field, match[2])
		}
	}
	return raw, diags
}

// resolveMacroValue maps a macro value back to its catalog key when the v1
// document declared the numeric id_upsti_document instead of the key itself.
func (m *Macros) resolveMacroValue(field, value string) string {
	rule := m.Schema.Field(field)
	if !rule.Join {
		return value
	}
	if _, found := m.Catalogs.Lookup(field, value); found {
		return value
	}

	for _, key := range m.Catalogs.Keys(field) {
		entry, _ := m.Catalogs.Lookup(field, key)
		if id := entry.Attr("id_upsti_document"); id != "" && id == value {
			return key
		}
	}
	return value
}

// Declarations renders the \newcommand block for a set of normalized
// records, the inverse of Extract. Join fields emit the catalog entry's
// id_upsti_document attribute when it exists; custom mappings emit their
// nom. Fields without a tex_key or without a value are skipped.
func (m *Macros) Declarations(records metadata.Records) string {
	var lines []string
	for _, field := range m.Schema.Order() {
		rule := m.Schema.Field(field)
		rec := records[field]
		if rule.TexKey == "" || rec == nil {
			continue
		}

		value := macroValue(rec.RawValue)
		if rule.Join {
			if entry, found := m.Catalogs.Lookup(field, value); found {
				if id := entry.Attr("id_upsti_document"); id != "" {
					value = id
				}
			}
		}
		if value == "" {
			continue
		}
		lines = append(lines, "\\newcommand{\\"+rule.TexKey+"}{"+value+"}")
	}
	return strings.Join(lines, "\n")
}

func macroValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case map[string]any:
		if nom, ok := t["nom"].(string); ok {
			return nom
		}
		return ""
	case []any:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
