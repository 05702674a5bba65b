package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upsti/upstilatex/internal/ui"
)

var infosCmd = &cobra.Command{
	Use:   "infos <file>",
	Short: "Show normalized metadata for a document",
	Long: `Extract and normalize the metadata of one document.

Each field is printed with its resolved value and its provenance:
explicit values come straight from the document, defaults and deductions
were supplied by the tool, ignored values were rejected with no fallback.
Diagnostics emitted during extraction and normalization follow the fields.

Examples:
  # Show metadata with provenance coloring
  upstilatex infos cours/engrenages.tex

  # Plain output for scripts
  upstilatex infos cours/engrenages.tex --no-color`,
	Args: RequireDocumentPath,
	RunE: runInfos,
}

func init() {
	rootCmd.AddCommand(infosCmd)
}

func runInfos(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	styles := getStyles(cmd)

	doc := env.document(args[0])
	version, _, err := doc.Version()
	if err != nil {
		return err
	}
	records, diags, err := doc.Metadata()
	if err != nil {
		return err
	}

	renderer := ui.NewRenderer(os.Stdout, styles)

	fmt.Println(styles.Title.Render(args[0]))
	fmt.Printf("  %s  %s\n\n", styles.Field.Render("format"), styles.Muted.Render(string(version)))

	renderer.Records(records, env.schema.Order())

	if len(diags) > 0 {
		fmt.Println()
		renderer.Diagnostics(diags)
	}
	renderer.Legend()
	return nil
}
