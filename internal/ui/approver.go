package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// InteractiveApprover implements the Approver interface for console-based
// confirmation. It describes the pending batch operation and asks for a
// yes/no answer on standard input.
type InteractiveApprover struct {
	input  io.Reader
	output io.Writer
}

// NewInteractiveApprover creates an InteractiveApprover reading from stdin
// and prompting on stderr.
func NewInteractiveApprover() upstilatex.Approver {
	return &InteractiveApprover{input: os.Stdin, output: os.Stderr}
}

// RequestApproval prompts the user to confirm the operation with y/yes.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, operation string) (bool, error) {
	fmt.Fprintf(a.output, "\n%s\n", operation)
	fmt.Fprint(a.output, "Proceed? [y/N]: ")

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		switch strings.ToLower(input) {
		case "y", "yes", "o", "oui":
			fmt.Fprintf(a.output, "%s Confirmed.\n", SymbolCheck)
			return true, nil
		}
		fmt.Fprintf(a.output, "%s Operation cancelled.\n", SymbolCross)
		return false, nil
	}
}

// ForcedApprover implements the Approver interface for forced approval.
// It displays a short countdown and proceeds automatically, used when the
// --yes flag is provided.
type ForcedApprover struct {
	output  io.Writer
	sleepFn func(time.Duration)
}

// ForcedApprovalCountdown is the delay before a forced approval proceeds,
// leaving a window to Ctrl+C out of a mistyped batch command.
const ForcedApprovalCountdown = 3 * time.Second

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover() upstilatex.Approver {
	return &ForcedApprover{output: os.Stderr, sleepFn: time.Sleep}
}

// RequestApproval displays a countdown and approves once it elapses.
func (a *ForcedApprover) RequestApproval(ctx context.Context, operation string) (bool, error) {
	fmt.Fprintf(a.output, "\n%s\n", operation)

	for i := int(ForcedApprovalCountdown.Seconds()); i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rStarting in %d... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r%s Proceeding.                               \n", SymbolCheck)
	return true, nil
}

// Verify both approvers implement the Approver interface at compile time
var (
	_ upstilatex.Approver = (*InteractiveApprover)(nil)
	_ upstilatex.Approver = (*ForcedApprover)(nil)
)
