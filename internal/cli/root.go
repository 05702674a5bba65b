package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upsti/upstilatex/internal/ui"
)

const asciiLogo = `
 _   _ ____  ____ _____ ___
| | | |  _ \/ ___|_   _|_ _|  _        _____  __
| | | | |_) \___ \ | |  | |  | |   __ |_   _|___\  __
| |_| |  __/ ___) || |  | |  | |__/ _ \ | |/ _ \ \/ /
 \___/|_|   |____/ |_| |___| |____\__,_||_|\___/_/\_\`

var rootCmd = &cobra.Command{
	Use:   "upstilatex",
	Short: "Metadata engine for UPSTI LaTeX documents",
	Long: asciiLogo + `

upstilatex reads UPSTI LaTeX source files, classifies their metadata format,
extracts the declared fields and normalizes them against the reference schema:
validation, defaulting, cascade deduction, all with per-field provenance.

Metadata stays in your .tex files. The tool never invents values silently:
every correction is reported and tagged.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or schema resource
  11 - Document missing, binary, or undecodable
  12 - User cancelled a batch operation
  13 - Legacy or unrecognized document format
  14 - Document could not be modified`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for upstilatex")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// getStyles builds the style set for a command, honoring --no-color and the
// terminal detection.
func getStyles(cmd *cobra.Command) ui.Styles {
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		noColor = false
	}
	return ui.NewStyles(!noColor && ui.ColorsEnabled())
}
