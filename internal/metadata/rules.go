package metadata

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleKind enumerates the structural rule variants a field may declare.
// The set is closed: the normalization engine switches exhaustively over it.
type RuleKind string

const (
	// RuleAllowedKeys restricts a mapping value to an explicit key allowlist.
	RuleAllowedKeys RuleKind = "allowed_keys"

	// RuleAllowedKeysFromCatalog restricts a mapping value's keys to the
	// entry keys of a named catalog.
	RuleAllowedKeysFromCatalog RuleKind = "allowed_keys_catalog"

	// RuleKeyTypes validates each mapping key against a declared value type
	// (a heterogeneous per-key schema).
	RuleKeyTypes RuleKind = "key_types"

	// RuleCatalogMembership requires every list element to be an entry key
	// of a named catalog.
	RuleCatalogMembership RuleKind = "membership"

	// RuleSumEquals requires the numeric elements of a list to sum to a target.
	RuleSumEquals RuleKind = "sum_equals"

	// RuleMax caps every numeric element of a list.
	RuleMax RuleKind = "max"

	// RuleCompetencyCodes validates a two-level mapping of track -> programme
	// -> code list against the competency catalog.
	RuleCompetencyCodes RuleKind = "competency_codes"
)

// StructuralRule is one tagged rule variant. Only the parameters relevant to
// its Kind are populated; Validate enforces that at load time.
type StructuralRule struct {
	Kind RuleKind `yaml:"kind"`

	// Keys parameterizes allowed_keys.
	Keys []string `yaml:"keys,omitempty"`

	// Catalog parameterizes allowed_keys_catalog, membership and
	// competency_codes.
	Catalog string `yaml:"catalog,omitempty"`

	// KeyTypes parameterizes key_types.
	KeyTypes map[string]ValueType `yaml:"key_types,omitempty"`

	// Target parameterizes sum_equals.
	Target float64 `yaml:"target,omitempty"`

	// Limit parameterizes max.
	Limit float64 `yaml:"limit,omitempty"`
}

// Validate checks the rule declaration is complete for its kind.
func (r *StructuralRule) Validate(field string) error {
	switch r.Kind {
	case RuleAllowedKeys:
		if len(r.Keys) == 0 {
			return fmt.Errorf("field %q: allowed_keys rule requires keys", field)
		}
	case RuleAllowedKeysFromCatalog, RuleCatalogMembership, RuleCompetencyCodes:
		if r.Catalog == "" {
			return fmt.Errorf("field %q: %s rule requires a catalog name", field, r.Kind)
		}
	case RuleKeyTypes:
		if len(r.KeyTypes) == 0 {
			return fmt.Errorf("field %q: key_types rule requires a type map", field)
		}
		for key, t := range r.KeyTypes {
			if !knownValueTypes[t] {
				return fmt.Errorf("field %q: key_types[%s]: unknown type %q", field, key, t)
			}
		}
	case RuleSumEquals:
		// Target zero is a legal (if unusual) declaration.
	case RuleMax:
		if r.Limit <= 0 {
			return fmt.Errorf("field %q: max rule requires a positive limit", field)
		}
	default:
		return fmt.Errorf("field %q: unknown rule kind %q", field, r.Kind)
	}
	return nil
}

// DefaultPolicy describes how a field obtains a value when the document does
// not provide a usable one.
type DefaultPolicy string

const (
	// DefaultNone leaves the field without recovery: invalid values are ignored.
	DefaultNone DefaultPolicy = ""

	// DefaultEnv substitutes the configured default for the field.
	DefaultEnv DefaultPolicy = "env"

	// DefaultComputed substitutes a value computed at normalization time,
	// such as a time-based unique document identifier.
	DefaultComputed DefaultPolicy = "computed"

	// DefaultCascade resolves the field as part of a cascade group, in the
	// dependency order declared by the schema.
	DefaultCascade DefaultPolicy = "cascade"
)

// UnmarshalYAML validates policy names while decoding the schema resource.
func (p *DefaultPolicy) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch DefaultPolicy(s) {
	case DefaultNone, DefaultEnv, DefaultComputed, DefaultCascade:
		*p = DefaultPolicy(s)
		return nil
	}
	return fmt.Errorf("unknown default policy %q", s)
}
