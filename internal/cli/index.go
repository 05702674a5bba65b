package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/upsti/upstilatex/internal/metadata"
	"github.com/upsti/upstilatex/internal/registry"
)

var indexCmd = &cobra.Command{
	Use:   "index [root...]",
	Short: "Rebuild the JSON document index",
	Long: `Scan the roots, normalize every compatible document and rebuild the
JSON index ("annuaire"). Each entry carries a deterministic identifier
derived from the normalized document content, so unchanged documents keep
their identity across rebuilds.

The index path comes from OS_CHEMIN_JSON_ANNUAIRE, or --output.

Examples:
  upstilatex index
  upstilatex index ./cours --output /tmp/annuaire.json`,
	RunE: runIndex,
}

var indexOutput string

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "", "Index file path (default from configuration)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	result, err := env.scanner().Scan(env.scanOptions(args, false))
	if err != nil {
		return err
	}

	allRecords := make(map[string]metadata.Records, len(result.Documents))
	for _, info := range result.Documents {
		records, diags, err := env.document(info.Path).Metadata()
		if err != nil {
			env.logger.Error("%s: %v", info.Path, err)
			continue
		}
		for _, d := range diags {
			env.logger.Verbose("%s: %s: %s", info.Path, d.Severity, d.Message)
		}
		allRecords[info.Path] = records
	}

	index := registry.Build(result.Documents, allRecords, time.Now())

	path := indexOutput
	if path == "" {
		path = env.cfg.Index.Path
	}
	if err := registry.Save(env.provider, path, index); err != nil {
		return err
	}

	fmt.Printf("indexed %d document(s) to %s\n", len(index.Documents), path)
	return nil
}
