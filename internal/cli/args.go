package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireDocumentPath validates that exactly one document path argument is
// provided. Returns a helpful error message with usage if missing or too many.
func RequireDocumentPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <file>

Usage: %s

Example:
  %s cours/engrenages.tex`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
