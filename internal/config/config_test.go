package config

import (
	"testing"
)

// TestLoad_Defaults tests the built-in defaults with a clean environment.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Meta.Defaults["matiere"] != "S2I" {
		t.Errorf("Expected default matiere S2I, got %v", cfg.Meta.Defaults["matiere"])
	}
	if cfg.Meta.IDPrefix != "EB" || cfg.Meta.IDSeparator != ":" {
		t.Errorf("Unexpected identifier defaults: %q %q", cfg.Meta.IDPrefix, cfg.Meta.IDSeparator)
	}
	if cfg.Compile.Passes != 2 {
		t.Errorf("Expected 2 compile passes, got %d", cfg.Compile.Passes)
	}
	if len(cfg.Scan.Roots) != 1 || cfg.Scan.Roots[0] != "." {
		t.Errorf("Expected current directory as scan root, got %v", cfg.Scan.Roots)
	}
}

// TestLoad_EnvironmentOverrides tests that environment variables win.
func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("META_DEFAULT_MATIERE", "info")
	t.Setenv("SCAN_ROOTS", "cours, td ,")
	t.Setenv("SCAN_EXCLUDES", "archives/**")
	t.Setenv("COMPILATION_NOMBRE_COMPILATIONS_LATEX", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Meta.Defaults["matiere"] != "info" {
		t.Errorf("Expected overridden matiere, got %v", cfg.Meta.Defaults["matiere"])
	}
	if len(cfg.Scan.Roots) != 2 || cfg.Scan.Roots[0] != "cours" || cfg.Scan.Roots[1] != "td" {
		t.Errorf("Expected trimmed root list, got %v", cfg.Scan.Roots)
	}
	if len(cfg.Scan.Excludes) != 1 {
		t.Errorf("Expected one exclusion, got %v", cfg.Scan.Excludes)
	}
	if cfg.Compile.Passes != 3 {
		t.Errorf("Expected 3 passes, got %d", cfg.Compile.Passes)
	}
}

// TestLoad_InvalidPasses tests validation of the pass count.
func TestLoad_InvalidPasses(t *testing.T) {
	t.Setenv("COMPILATION_NOMBRE_COMPILATIONS_LATEX", "0")

	if _, err := Load(); err == nil {
		t.Error("Expected an error for zero compile passes")
	}
}

// TestLoad_UnparseableIntFallsBack tests lenient integer parsing.
func TestLoad_UnparseableIntFallsBack(t *testing.T) {
	t.Setenv("COMPILATION_NOMBRE_COMPILATIONS_LATEX", "beaucoup")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Compile.Passes != 2 {
		t.Errorf("Expected fallback to 2 passes, got %d", cfg.Compile.Passes)
	}
}

// TestMetadataOptions tests the bridge into normalization options.
func TestMetadataOptions(t *testing.T) {
	t.Setenv("META_DEFAULT_ID_DOCUMENT_PREFIXE", "XY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	opts := cfg.MetadataOptions()
	if opts.IDPrefix != "XY" {
		t.Errorf("Expected prefix XY, got %q", opts.IDPrefix)
	}
	if opts.Defaults["classe"] != "PT" {
		t.Errorf("Expected default classe PT, got %v", opts.Defaults["classe"])
	}
}

// TestSchema_Embedded tests loading the embedded schema resource.
func TestSchema_Embedded(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	schema, catalogs, err := cfg.Schema()
	if err != nil {
		t.Fatalf("Schema failed: %v", err)
	}
	if !schema.Has("titre") {
		t.Error("Expected the embedded schema")
	}
	if _, ok := catalogs.Lookup("classe", "PTSI"); !ok {
		t.Error("Expected the embedded catalogs")
	}
}

// TestSchema_OverrideMissingFile tests the error for a bad override path.
func TestSchema_OverrideMissingFile(t *testing.T) {
	t.Setenv("META_SCHEMA_PATH", "/nonexistent/schema.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, _, err := cfg.Schema(); err == nil {
		t.Error("Expected an error for a missing override schema")
	}
}
