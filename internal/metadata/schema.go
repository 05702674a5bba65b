package metadata

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// FieldRule is the declarative rule set for one schema field.
type FieldRule struct {
	// Label and Description are display strings.
	Label       string `yaml:"label"`
	Description string `yaml:"description,omitempty"`

	// Types is the ordered set of accepted semantic types.
	Types []ValueType `yaml:"types"`

	// Rules are the structural validation rules, checked in declaration order.
	Rules []StructuralRule `yaml:"rules,omitempty"`

	// Join marks the raw value as a foreign key into the same-named catalog.
	Join bool `yaml:"join,omitempty"`

	// CustomAllowed permits non-catalog values on a relational field. Such
	// values are kept and flagged informational instead of being rejected.
	CustomAllowed bool `yaml:"custom_allowed,omitempty"`

	// CustomShape declares the exact sub-key set and types a free-form
	// mapping value must carry.
	CustomShape map[string]ValueType `yaml:"custom_shape,omitempty"`

	// Default is the recovery policy when the value is absent or invalid.
	Default DefaultPolicy `yaml:"default,omitempty"`

	// CleanBool coerces truthy/falsy scalar spellings ("1", "yes", "on")
	// to a boolean before type validation.
	CleanBool bool `yaml:"clean_bool,omitempty"`

	// TexKey is the macro name used by v1 documents for this field, and by
	// the declaration generator when writing v1 metadata back.
	TexKey string `yaml:"tex_key,omitempty"`
}

// CascadeStep is one member of a cascade group, resolved in declaration
// order. A step without From falls back to the field's configured default;
// a step with From inherits the named attribute of the catalog entry keyed
// by the upstream field's resolved value.
type CascadeStep struct {
	// Field is the schema field this step resolves.
	Field string `yaml:"field"`

	// From names the upstream field whose value keys the lookup. Empty for
	// root steps.
	From string `yaml:"from,omitempty"`

	// Attr is the catalog entry attribute to inherit, e.g. "filiere" on a
	// classe entry or "dernier_programme" on a filiere entry.
	Attr string `yaml:"attr,omitempty"`
}

// Schema is the field schema registry: immutable once loaded, safe for
// concurrent reads.
type Schema struct {
	fields   map[string]*FieldRule
	order    []string
	cascades map[string][]CascadeStep
}

// Field returns the rule set for a field name, or nil when unknown.
func (s *Schema) Field(name string) *FieldRule {
	return s.fields[name]
}

// Has reports whether the field name is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Order returns field names in declaration order, for stable display.
func (s *Schema) Order() []string {
	return s.order
}

// Cascades returns the declared cascade groups, keyed by group name.
func (s *Schema) Cascades() map[string][]CascadeStep {
	return s.cascades
}

// CatalogEntry is one row of a reference catalog: the display attributes
// plus any catalog-specific attributes (parent keys, identifiers).
type CatalogEntry struct {
	Nom       string
	Affichage string
	Initiales string

	// Attrs carries catalog-specific attributes such as "filiere" on classe
	// entries, "dernier_programme" on filiere entries or "id_upsti_document"
	// used when generating v1 declarations.
	Attrs map[string]string
}

// UnmarshalYAML splits the three display attributes out of the entry mapping
// and keeps everything else in Attrs.
func (e *CatalogEntry) UnmarshalYAML(node *yaml.Node) error {
	raw := map[string]string{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	e.Attrs = map[string]string{}
	for k, v := range raw {
		switch k {
		case "nom":
			e.Nom = v
		case "affichage":
			e.Affichage = v
		case "initiales":
			e.Initiales = v
		default:
			e.Attrs[k] = v
		}
	}
	return nil
}

// Attr returns a catalog-specific attribute, "" when absent.
func (e *CatalogEntry) Attr(name string) string {
	if e == nil {
		return ""
	}
	return e.Attrs[name]
}

// Catalog maps entry key to entry.
type Catalog map[string]CatalogEntry

// CompetencyTree is the two-level competency catalog:
// track -> programme -> sorted competency codes.
type CompetencyTree map[string]map[string][]string

// Catalogs bundles the reference catalogs consumed by normalization.
// Read-only after loading; safe to share across goroutines.
type Catalogs struct {
	Entries     map[string]Catalog
	Competences CompetencyTree
}

// Lookup returns the entry for key in the named catalog.
func (c *Catalogs) Lookup(catalog, key string) (CatalogEntry, bool) {
	entries, ok := c.Entries[catalog]
	if !ok {
		return CatalogEntry{}, false
	}
	entry, ok := entries[key]
	return entry, ok
}

// Keys returns the sorted entry keys of the named catalog.
func (c *Catalogs) Keys(catalog string) []string {
	entries := c.Entries[catalog]
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resourceFile mirrors the YAML layout of the schema resource.
type resourceFile struct {
	Fields      yaml.Node                      `yaml:"fields"`
	Cascades    map[string][]CascadeStep       `yaml:"cascades,omitempty"`
	Catalogs    map[string]Catalog             `yaml:"catalogs,omitempty"`
	Competences map[string]map[string][]string `yaml:"competences,omitempty"`
}

// Load parses a schema resource (fields, cascades, catalogs, competency
// tree) from YAML. The field declaration order is preserved for display.
func Load(data []byte) (*Schema, *Catalogs, error) {
	var res resourceFile
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, nil, fmt.Errorf("parse schema resource: %w", err)
	}

	schema := &Schema{
		fields:   map[string]*FieldRule{},
		cascades: res.Cascades,
	}
	if schema.cascades == nil {
		schema.cascades = map[string][]CascadeStep{}
	}

	// Decode fields by hand to retain declaration order, which a plain map
	// would lose.
	if res.Fields.Kind != 0 {
		if res.Fields.Kind != yaml.MappingNode {
			return nil, nil, fmt.Errorf("parse schema resource: fields must be a mapping")
		}
		for i := 0; i+1 < len(res.Fields.Content); i += 2 {
			name := res.Fields.Content[i].Value
			rule := &FieldRule{}
			if err := res.Fields.Content[i+1].Decode(rule); err != nil {
				return nil, nil, fmt.Errorf("parse field %q: %w", name, err)
			}
			schema.fields[name] = rule
			schema.order = append(schema.order, name)
		}
	}

	catalogs := &Catalogs{
		Entries:     res.Catalogs,
		Competences: res.Competences,
	}
	if catalogs.Entries == nil {
		catalogs.Entries = map[string]Catalog{}
	}
	if catalogs.Competences == nil {
		catalogs.Competences = CompetencyTree{}
	}

	if err := validate(schema); err != nil {
		return nil, nil, err
	}
	return schema, catalogs, nil
}

// validate rejects malformed field declarations at load time so the engine
// can assume a well-formed registry.
func validate(s *Schema) error {
	for name, rule := range s.fields {
		if len(rule.Types) == 0 {
			return fmt.Errorf("field %q: at least one accepted type is required", name)
		}
		for _, t := range rule.Types {
			if !knownValueTypes[t] {
				return fmt.Errorf("field %q: unknown type %q", name, t)
			}
		}
		for i := range rule.Rules {
			if err := rule.Rules[i].Validate(name); err != nil {
				return err
			}
		}
		for key, t := range rule.CustomShape {
			if !knownValueTypes[t] {
				return fmt.Errorf("field %q: custom_shape[%s]: unknown type %q", name, key, t)
			}
		}
	}
	for group, steps := range s.cascades {
		for _, step := range steps {
			if !s.Has(step.Field) {
				return fmt.Errorf("cascade %q: unknown field %q", group, step.Field)
			}
			if step.From != "" && !s.Has(step.From) {
				return fmt.Errorf("cascade %q: step %q depends on unknown field %q", group, step.Field, step.From)
			}
			if step.From != "" && step.Attr == "" {
				return fmt.Errorf("cascade %q: step %q has a dependency but no attribute to inherit", group, step.Field)
			}
		}
	}
	return nil
}
