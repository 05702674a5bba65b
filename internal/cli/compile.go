package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upsti/upstilatex/internal/ui"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

var compileCmd = &cobra.Command{
	Use:   "compile [root...]",
	Short: "Compile the documents flagged for batch compilation",
	Long: `Scan the roots and collect every document whose a_compiler field is
set, then ask for confirmation before starting the batch.

The LaTeX invocation itself is not implemented yet; the command currently
stops after the confirmation step.

Examples:
  upstilatex compile ./cours
  upstilatex compile --yes`,
	RunE: runCompile,
}

var compileYes bool

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().BoolVarP(&compileYes, "yes", "y", false, "Skip the confirmation prompt (short countdown instead)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	styles := getStyles(cmd)

	result, err := env.scanner().Scan(env.scanOptions(args, false))
	if err != nil {
		return err
	}

	var flagged []upstilatex.DocumentInfo
	for _, info := range result.Documents {
		records, _, err := env.document(info.Path).Metadata()
		if err != nil {
			env.logger.Error("%s: %v", info.Path, err)
			continue
		}
		if rec, ok := records["a_compiler"]; ok {
			if b, isBool := rec.Value.(bool); isBool && b {
				flagged = append(flagged, info)
			}
		}
	}

	if len(flagged) == 0 {
		fmt.Println("no document is flagged for compilation (a_compiler)")
		return nil
	}

	for _, info := range flagged {
		fmt.Printf("  %s %s\n", styles.Explicit.Render(ui.SymbolBullet), info.DisplayPath)
	}

	approver := selectApprover(compileYes, ui.IsInteractive(), styles)
	operation := fmt.Sprintf("Compile %d document(s), %d pass(es) each.", len(flagged), env.cfg.Compile.Passes)
	approved, err := approver.RequestApproval(cmd.Context(), operation)
	if err != nil {
		return err
	}
	if !approved {
		return upstilatex.ErrApprovalDenied
	}

	return fmt.Errorf("latex compilation backend: %w", upstilatex.ErrNotImplemented)
}

// selectApprover picks the approval strategy: --yes forces the countdown, a
// terminal gets the full-screen confirm prompt, piped input falls back to
// the plain y/N reader.
func selectApprover(force, interactive bool, styles ui.Styles) upstilatex.Approver {
	switch {
	case force:
		return ui.NewForcedApprover()
	case interactive:
		return ui.NewConfirmApprover(styles)
	default:
		return ui.NewInteractiveApprover()
	}
}
