package cli

import (
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <file>",
	Short: "Convert a macro-based document to the front-matter format",
	Long: `Convert a UPSTI_Document v1 document (metadata declared through
\newcommand macros) to the current front-matter format: the extracted
metadata is written as a commented YAML block at the top of the file and
the old macro declarations are removed.

Fails when the document already carries a front-matter block, or when its
format is legacy or unrecognized.

Examples:
  upstilatex upgrade cours/engrenages.tex`,
	Args: RequireDocumentPath,
	RunE: runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	if err := env.document(args[0]).Upgrade(); err != nil {
		return err
	}
	env.logger.Info("%s: upgraded to front-matter format", args[0])
	return nil
}
