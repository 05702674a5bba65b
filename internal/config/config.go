// Package config reads tool configuration from the environment. A .env file
// in the working directory is honored via godotenv; explicit environment
// variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/upsti/upstilatex/internal/metadata"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// MetaConfig configures normalization: field defaults and the computed
// document identifier.
type MetaConfig struct {
	Defaults    map[string]any
	IDPrefix    string
	IDSeparator string

	// SchemaPath optionally overrides the embedded schema resource.
	SchemaPath string
}

// ScanConfig configures document discovery.
type ScanConfig struct {
	Roots    []string
	Excludes []string
}

// IndexConfig configures the document index.
type IndexConfig struct {
	Path string
}

// CompileConfig configures batch compilation.
type CompileConfig struct {
	Passes int
}

// Config is the aggregated tool configuration.
type Config struct {
	Meta    MetaConfig
	Scan    ScanConfig
	Index   IndexConfig
	Compile CompileConfig
}

// Load reads the configuration. The .env file is optional; a missing file
// is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Meta: MetaConfig{
			Defaults: map[string]any{
				"titre":         getStr("META_DEFAULT_TITRE", "Titre par défaut"),
				"variante":      getStr("META_DEFAULT_VARIANTE", "upsti"),
				"matiere":       getStr("META_DEFAULT_MATIERE", "S2I"),
				"classe":        getStr("META_DEFAULT_CLASSE", "PT"),
				"type_document": getStr("META_DEFAULT_TYPE_DOCUMENT", "cours"),
				"version":       getStr("META_DEFAULT_VERSION", "0.1"),
				"auteur":        getStr("META_DEFAULT_AUTEUR", "Emmanuel BIGEARD"),
				"illustration":  getStr("META_DEFAULT_ILLUSTRATION", "engrenage"),
			},
			IDPrefix:    getStr("META_DEFAULT_ID_DOCUMENT_PREFIXE", "EB"),
			IDSeparator: getStr("META_DEFAULT_SEPARATEUR_ID_DOCUMENT", ":"),
			SchemaPath:  getStr("META_SCHEMA_PATH", ""),
		},
		Scan: ScanConfig{
			Roots:    getList("SCAN_ROOTS", "."),
			Excludes: getList("SCAN_EXCLUDES", ""),
		},
		Index: IndexConfig{
			Path: getStr("OS_CHEMIN_JSON_ANNUAIRE", "upsti_annuaire_tex/annuaire_fichiers_tex.json"),
		},
		Compile: CompileConfig{
			Passes: getInt("COMPILATION_NOMBRE_COMPILATIONS_LATEX", 2),
		},
	}

	if cfg.Compile.Passes < 1 {
		return nil, fmt.Errorf("%w: COMPILATION_NOMBRE_COMPILATIONS_LATEX must be at least 1", upstilatex.ErrInvalidConfig)
	}
	if len(cfg.Scan.Roots) == 0 {
		return nil, fmt.Errorf("%w: SCAN_ROOTS must name at least one directory", upstilatex.ErrInvalidConfig)
	}
	return cfg, nil
}

// Schema loads the field schema, honoring the override path.
func (c *Config) Schema() (*metadata.Schema, *metadata.Catalogs, error) {
	if c.Meta.SchemaPath != "" {
		schema, catalogs, err := metadata.LoadFile(c.Meta.SchemaPath)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", upstilatex.ErrInvalidConfig, err)
		}
		return schema, catalogs, nil
	}
	schema, catalogs, err := metadata.LoadDefault()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", upstilatex.ErrInvalidConfig, err)
	}
	return schema, catalogs, nil
}

// MetadataOptions builds the normalization options from the configuration.
func (c *Config) MetadataOptions() metadata.Options {
	return metadata.Options{
		Defaults:    c.Meta.Defaults,
		IDPrefix:    c.Meta.IDPrefix,
		IDSeparator: c.Meta.IDSeparator,
	}
}

// getStr returns an environment variable or the default when unset or
// empty.
func getStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getInt parses an environment variable as int, falling back on missing or
// unparseable values.
func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

// getList splits a comma-separated environment variable, dropping empty
// elements.
func getList(key, fallback string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
