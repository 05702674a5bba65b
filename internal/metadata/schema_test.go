package metadata

import (
	"strings"
	"testing"
)

// TestLoadDefault tests that the embedded resource parses and declares the
// core fields in a stable order.
func TestLoadDefault(t *testing.T) {
	schema, catalogs, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}

	for _, field := range []string{"titre", "type_document", "classe", "filiere", "programme", "variante", "id_unique"} {
		if !schema.Has(field) {
			t.Errorf("Expected field %q in the embedded schema", field)
		}
	}

	order := schema.Order()
	if len(order) == 0 || order[0] != "titre" {
		t.Errorf("Expected titre first in declaration order, got %v", order)
	}

	if _, ok := catalogs.Lookup("type_document", "cours"); !ok {
		t.Error("Expected cours in the type_document catalog")
	}
	if _, ok := catalogs.Competences["PT"]["2021"]; !ok {
		t.Error("Expected PT/2021 in the competency tree")
	}
}

// TestLoad_PreservesDeclarationOrder tests that field order follows the
// resource file, not map iteration.
func TestLoad_PreservesDeclarationOrder(t *testing.T) {
	src := `
fields:
  zeta:
    label: "Z"
    types: [string]
  alpha:
    label: "A"
    types: [string]
  mu:
    label: "M"
    types: [string]
`
	schema, _, err := Load([]byte(src))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := schema.Order()
	want := []string{"zeta", "alpha", "mu"}
	for i, field := range want {
		if got[i] != field {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}

// TestLoad_RejectsUnknownType tests load-time validation of type tags.
func TestLoad_RejectsUnknownType(t *testing.T) {
	src := `
fields:
  titre:
    label: "Titre"
    types: [varchar]
`
	_, _, err := Load([]byte(src))
	if err == nil {
		t.Fatal("Expected an error for unknown type tag")
	}
	if !strings.Contains(err.Error(), "varchar") {
		t.Errorf("Expected the offending tag in the error, got: %v", err)
	}
}

// TestLoad_RejectsUnknownRuleKind tests load-time validation of rule kinds.
func TestLoad_RejectsUnknownRuleKind(t *testing.T) {
	src := `
fields:
  bareme:
    label: "B"
    types: [list]
    rules:
      - kind: sum_below
        target: 20
`
	_, _, err := Load([]byte(src))
	if err == nil {
		t.Fatal("Expected an error for unknown rule kind")
	}
}

// TestLoad_RejectsDanglingCascade tests that cascade steps must reference
// declared fields.
func TestLoad_RejectsDanglingCascade(t *testing.T) {
	src := `
fields:
  classe:
    label: "Classe"
    types: [string]
    default: cascade
cascades:
  pedagogie:
    - field: classe
    - field: filiere
      from: classe
      attr: filiere
`
	_, _, err := Load([]byte(src))
	if err == nil {
		t.Fatal("Expected an error for a cascade step on an undeclared field")
	}
}

// TestLoad_RejectsUnknownDefaultPolicy tests policy validation at decode time.
func TestLoad_RejectsUnknownDefaultPolicy(t *testing.T) {
	src := `
fields:
  auteur:
    label: "Auteur"
    types: [string]
    default: random
`
	_, _, err := Load([]byte(src))
	if err == nil {
		t.Fatal("Expected an error for unknown default policy")
	}
}
