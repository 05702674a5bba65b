package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Edit document metadata in place",
	Long: `Metadata editing commands. The write strategy follows the document
format: front-matter documents get their YAML block rewritten, macro
documents get their \newcommand declarations updated.

Available commands:
  set     Set a metadata field
  delete  Remove a metadata field

Examples:
  upstilatex meta set cours/engrenages.tex titre "Trains d'engrenages"
  upstilatex meta delete cours/engrenages.tex sous_titre`,
}

var metaSetCmd = &cobra.Command{
	Use:   "set <file> <key> <value>",
	Short: "Set a metadata field",
	Long: `Set one metadata field in the document, adding it when absent.

The value is parsed as YAML, so numbers, booleans and inline mappings keep
their type:

  upstilatex meta set ds.tex version 2.1
  upstilatex meta set ds.tex a_trous true
  upstilatex meta set ds.tex variante '{nom: perso, affichage: Personnalisée}'`,
	Args: cobra.ExactArgs(3),
	RunE: runMetaSet,
}

var metaDeleteCmd = &cobra.Command{
	Use:   "delete <file> <key>",
	Short: "Remove a metadata field",
	Long: `Remove one metadata field from the document. Fails when the field
is not declared in the document.`,
	Args: cobra.ExactArgs(2),
	RunE: runMetaDelete,
}

func init() {
	rootCmd.AddCommand(metaCmd)
	metaCmd.AddCommand(metaSetCmd)
	metaCmd.AddCommand(metaDeleteCmd)
}

func runMetaSet(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	path, key, raw := args[0], args[1], args[2]

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		// Not valid YAML, keep the literal string.
		value = raw
	}

	if err := env.document(path).SetMeta(key, value); err != nil {
		return err
	}
	env.logger.Info("%s: set %s", path, key)
	return nil
}

func runMetaDelete(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	path, key := args[0], args[1]
	if err := env.document(path).DeleteMeta(key); err != nil {
		return err
	}
	env.logger.Info("%s: deleted %s", path, key)
	return nil
}
