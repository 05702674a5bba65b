package cli

import (
	"github.com/spf13/cobra"

	"github.com/upsti/upstilatex/internal/checksum"
	"github.com/upsti/upstilatex/internal/config"
	"github.com/upsti/upstilatex/internal/document"
	"github.com/upsti/upstilatex/internal/files/filesystem"
	"github.com/upsti/upstilatex/internal/files/scanner"
	"github.com/upsti/upstilatex/internal/logging"
	"github.com/upsti/upstilatex/internal/metadata"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// environment bundles the shared dependencies every command builds at start:
// configuration, schema, filesystem provider and logger.
type environment struct {
	cfg      *config.Config
	schema   *metadata.Schema
	catalogs *metadata.Catalogs
	opts     metadata.Options
	provider filesystem.Provider
	logger   upstilatex.Logger
}

// newEnvironment loads configuration and the schema resource. Called from
// each command's RunE so flag parsing errors surface before config errors.
func newEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	schema, catalogs, err := cfg.Schema()
	if err != nil {
		return nil, err
	}
	return &environment{
		cfg:      cfg,
		schema:   schema,
		catalogs: catalogs,
		opts:     cfg.MetadataOptions(),
		provider: filesystem.NewOSFileSystem(),
		logger:   logging.NewConsoleLogger(getVerboseFlag(cmd)),
	}, nil
}

// document builds a Document handle for one path.
func (e *environment) document(path string) *document.Document {
	return document.New(e.provider, path, e.schema, e.catalogs, e.opts)
}

// scanner builds a document scanner over the configured provider.
func (e *environment) scanner() *scanner.Scanner {
	return scanner.New(checksum.New(), e.provider)
}

// scanOptions resolves scan roots: explicit arguments win over SCAN_ROOTS.
func (e *environment) scanOptions(args []string, includeIncompatible bool) scanner.Options {
	roots := e.cfg.Scan.Roots
	if len(args) > 0 {
		roots = args
	}
	return scanner.Options{
		Roots:               roots,
		Excludes:            e.cfg.Scan.Excludes,
		IncludeIncompatible: includeIncompatible,
	}
}
