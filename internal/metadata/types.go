package metadata

import (
	"fmt"

	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// ValueType is a semantic type tag a field value can be validated against.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeInteger ValueType = "integer"
	TypeFloat   ValueType = "float"
	TypeBoolean ValueType = "boolean"
	TypeList    ValueType = "list"
	TypeMapping ValueType = "mapping"

	// TypeText accepts anything renderable as running text: strings,
	// integers and floats.
	TypeText ValueType = "text"
)

// knownValueTypes guards schema loading against typos in the resource file.
var knownValueTypes = map[ValueType]bool{
	TypeString:  true,
	TypeInteger: true,
	TypeFloat:   true,
	TypeBoolean: true,
	TypeList:    true,
	TypeMapping: true,
	TypeText:    true,
}

// Matches reports whether v conforms to the type tag. Raw values come from
// YAML (v2 front matter) or from the macro extractor, so the scalar set is
// string, int/int64, float64, bool, []any and map[string]any.
func (t ValueType) Matches(v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeInteger:
		switch v.(type) {
		case int, int64:
			return true
		}
		return false
	case TypeFloat:
		_, ok := v.(float64)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeList:
		_, ok := v.([]any)
		return ok
	case TypeMapping:
		_, ok := v.(map[string]any)
		return ok
	case TypeText:
		switch v.(type) {
		case string, int, int64, float64:
			return true
		}
		return false
	}
	return false
}

// MatchesAny reports whether v conforms to at least one of the given tags.
func MatchesAny(v any, types []ValueType) bool {
	for _, t := range types {
		if t.Matches(v) {
			return true
		}
	}
	return false
}

// Record is the normalized result for one schema field. A record exists for
// every schema field that was present in the raw data or carries a default
// policy; fields absent from the schema never produce records.
type Record struct {
	// Field is the schema field name.
	Field string

	// Label and Description come from the schema, for presentation.
	Label       string
	Description string

	// RawValue is the value after validation and defaulting. It starts as
	// the extracted value and may be cleared and replaced by the pipeline.
	RawValue any

	// InitialValue is the extracted value before any correction, retained
	// for diagnostic display.
	InitialValue any

	// Value, Display and ShortForm are the resolved presentation forms.
	// For relational fields they come from the catalog entry; otherwise
	// they fall back along the chain RawValue -> Value -> Display.
	Value     any
	Display   any
	ShortForm any

	// Provenance records how the final value was obtained. Empty until
	// finalization, which resolves untouched records to explicit.
	Provenance upstilatex.Provenance

	// Hint is set when a non-catalog custom value was explicitly permitted.
	Hint upstilatex.DisplayHint

	// present remembers whether the field appeared in the raw mapping.
	present bool
}

// Explicit reports whether the value survived validation untouched.
func (r *Record) Explicit() bool {
	return r.Provenance == upstilatex.ProvenanceExplicit
}

// ValueString renders the resolved value for terminal output.
func (r *Record) ValueString() string {
	if r.Value == nil {
		return ""
	}
	if s, ok := r.Value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", r.Value)
}

// Records maps field name to its normalized record.
type Records map[string]*Record
