package ui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for upstilatex.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// DetectMode determines whether upstilatex should run in interactive or
// non-interactive mode.
//
// Returns ModeNonInteractive if:
//   - stdin or stdout is not a terminal (piped input, CI/CD)
//   - UPSTILATEX_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//
// Returns ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv("UPSTILATEX_NON_INTERACTIVE") == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

// ColorsEnabled reports whether ANSI colors should be emitted on stdout.
// NO_COLOR disables colors even on a terminal.
func ColorsEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
