package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upsti/upstilatex/pkg/upstilatex"
)

var listFilesCmd = &cobra.Command{
	Use:   "list-files [root...]",
	Short: "List documents under the scan roots",
	Long: `Walk the scan roots and list every LaTeX document found, with its
detected format. Roots come from the arguments, or SCAN_ROOTS when omitted.
Exclusion patterns from SCAN_EXCLUDES apply in both cases.

Examples:
  # List compatible documents under the configured roots
  upstilatex list-files

  # List everything under one directory, legacy documents included
  upstilatex list-files ./cours --all

  # Machine-readable output
  upstilatex list-files --json`,
	RunE: runListFiles,
}

var (
	listFilesAll  bool
	listFilesJSON bool
)

func init() {
	rootCmd.AddCommand(listFilesCmd)
	listFilesCmd.Flags().BoolVar(&listFilesAll, "all", false, "Include legacy and unrecognized documents")
	listFilesCmd.Flags().BoolVar(&listFilesJSON, "json", false, "Output the document list as JSON")
}

func runListFiles(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	styles := getStyles(cmd)

	result, err := env.scanner().Scan(env.scanOptions(args, listFilesAll))
	if err != nil {
		return err
	}

	if listFilesJSON {
		return json.NewEncoder(os.Stdout).Encode(result.Documents)
	}

	for _, doc := range result.Documents {
		marker := styles.Explicit.Render("✓")
		if !doc.Compatible {
			marker = styles.Error.Render("✗")
		}
		fmt.Printf("%s %s  %s\n", marker, doc.DisplayPath, styles.Muted.Render(string(doc.Version)))
	}

	if result.Diagnostics.Count(upstilatex.SeverityWarning) > 0 && getVerboseFlag(cmd) {
		fmt.Fprintln(os.Stderr)
		for _, d := range result.Diagnostics {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.Message)
		}
	}

	fmt.Printf("\n%d document(s)\n", len(result.Documents))
	return nil
}
