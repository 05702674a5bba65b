package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/upsti/upstilatex/internal/checksum"
	"github.com/upsti/upstilatex/internal/ui"
	"github.com/upsti/upstilatex/internal/watch"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

var watchCmd = &cobra.Command{
	Use:   "watch [root...]",
	Short: "Watch the scan roots and re-normalize changed documents",
	Long: `Watch the scan roots for document changes. When a document is
created or modified, its metadata is re-extracted and re-normalized and a
one-line summary is printed. Changes that only touch comments or whitespace
are ignored.

Runs until interrupted with Ctrl+C.

Examples:
  upstilatex watch
  upstilatex watch ./cours ./td`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	styles := getStyles(cmd)

	scanOpts := env.scanOptions(args, false)

	watcher, err := watch.New(watch.Options{
		Roots:    scanOpts.Roots,
		Excludes: scanOpts.Excludes,
	}, checksum.New(), env.logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	// Prime from an initial scan so only real changes fire events.
	result, err := env.scanner().Scan(scanOpts)
	if err != nil {
		return err
	}
	for _, info := range result.Documents {
		watcher.Prime(info.Path, info.Checksum)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("watching %d root(s), %d document(s) known. Ctrl+C to stop.\n",
		len(scanOpts.Roots), len(result.Documents))

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nstopped")
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			handleWatchEvent(env, styles, ev)
		}
	}
}

func handleWatchEvent(env *environment, styles ui.Styles, ev watch.Event) {
	switch ev.Operation {
	case watch.OpDelete:
		fmt.Printf("%s %s\n", styles.Muted.Render("deleted"), ev.Path)
		return
	}

	records, diags, err := env.document(ev.Path).Metadata()
	if err != nil {
		fmt.Printf("%s %s: %v\n", styles.Error.Render("error"), ev.Path, err)
		return
	}

	warnings := diags.Count(upstilatex.SeverityWarning)
	errors := diags.Count(upstilatex.SeverityError)
	marker := styles.Explicit.Render("✓")
	if errors > 0 {
		marker = styles.Error.Render("✗")
	} else if warnings > 0 {
		marker = styles.Warning.Render("!")
	}
	fmt.Printf("%s %s (%s, %d field(s), %d warning(s), %d error(s))\n",
		marker, ev.Path, ev.Operation, len(records), warnings, errors)
}
