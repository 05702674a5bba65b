package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/upsti/upstilatex/internal/cli"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(upstilatex.ExitPanic)
		}
	}()

	if os.Getenv("UPSTILATEX_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(upstilatex.ExitCodeForError(err))
	}
}
