package ui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestForcedApprover_ApprovesAfterCountdown(t *testing.T) {
	var output bytes.Buffer
	sleepCalls := 0

	approver := &ForcedApprover{
		output: &output,
		sleepFn: func(d time.Duration) {
			sleepCalls++
		},
	}

	approved, err := approver.RequestApproval(context.Background(), "Compile 3 documents")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !approved {
		t.Fatal("Expected approval after countdown")
	}
	if sleepCalls != 3 {
		t.Errorf("Expected 3 sleep calls (one per second), got %d", sleepCalls)
	}
}

func TestForcedApprover_OutputContainsOperation(t *testing.T) {
	var output bytes.Buffer

	approver := &ForcedApprover{
		output:  &output,
		sleepFn: func(time.Duration) {},
	}

	_, _ = approver.RequestApproval(context.Background(), "Compile 12 documents under /courses")

	out := output.String()
	if !strings.Contains(out, "Compile 12 documents under /courses") {
		t.Errorf("Expected output to describe the operation, got:\n%s", out)
	}
	if !strings.Contains(out, "Proceeding") {
		t.Errorf("Expected output to contain proceeding message, got:\n%s", out)
	}
}

func TestForcedApprover_ContextCancellation(t *testing.T) {
	var output bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())

	approver := &ForcedApprover{
		output: &output,
		sleepFn: func(d time.Duration) {
			cancel()
		},
	}

	approved, err := approver.RequestApproval(ctx, "Compile 3 documents")
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}
	if approved {
		t.Fatal("Expected approval to be false on cancellation")
	}
	if !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("Expected context canceled error, got: %v", err)
	}
}

func TestInteractiveApprover_Accepts(t *testing.T) {
	for _, answer := range []string{"y\n", "yes\n", "o\n", "  oui  \n", "Y\n"} {
		var output bytes.Buffer
		approver := &InteractiveApprover{
			input:  strings.NewReader(answer),
			output: &output,
		}

		approved, err := approver.RequestApproval(context.Background(), "Compile 3 documents")
		if err != nil {
			t.Fatalf("answer %q: unexpected error: %v", answer, err)
		}
		if !approved {
			t.Errorf("answer %q: expected approval", answer)
		}
		if !strings.Contains(output.String(), "Confirmed") {
			t.Errorf("answer %q: expected confirmation message, got:\n%s", answer, output.String())
		}
	}
}

func TestInteractiveApprover_Declines(t *testing.T) {
	for _, answer := range []string{"n\n", "no\n", "\n", "whatever\n"} {
		var output bytes.Buffer
		approver := &InteractiveApprover{
			input:  strings.NewReader(answer),
			output: &output,
		}

		approved, err := approver.RequestApproval(context.Background(), "Compile 3 documents")
		if err != nil {
			t.Fatalf("answer %q: unexpected error: %v", answer, err)
		}
		if approved {
			t.Errorf("answer %q: expected denial", answer)
		}
		if !strings.Contains(output.String(), "cancelled") {
			t.Errorf("answer %q: expected cancellation message, got:\n%s", answer, output.String())
		}
	}
}

func TestInteractiveApprover_OutputContainsOperation(t *testing.T) {
	var output bytes.Buffer
	approver := &InteractiveApprover{
		input:  strings.NewReader("y\n"),
		output: &output,
	}

	_, _ = approver.RequestApproval(context.Background(), "Compile 7 documents")

	if !strings.Contains(output.String(), "Compile 7 documents") {
		t.Errorf("Expected output to describe the operation, got:\n%s", output.String())
	}
}

func TestInteractiveApprover_ReadError(t *testing.T) {
	var output bytes.Buffer
	approver := &InteractiveApprover{
		input:  &errorReader{err: io.ErrUnexpectedEOF},
		output: &output,
	}

	approved, err := approver.RequestApproval(context.Background(), "Compile 3 documents")
	if err == nil {
		t.Fatal("Expected error for read failure")
	}
	if approved {
		t.Fatal("Expected denial on read error")
	}
	if !strings.Contains(err.Error(), "failed to read input") {
		t.Errorf("Expected read error wrapper, got: %v", err)
	}
}

func TestInteractiveApprover_ContextCancellation(t *testing.T) {
	var output bytes.Buffer
	input := newBlockingReader()
	t.Cleanup(func() { input.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approver := &InteractiveApprover{
		input:  input,
		output: &output,
	}

	approved, err := approver.RequestApproval(ctx, "Compile 3 documents")
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}
	if approved {
		t.Fatal("Expected denial on context cancellation")
	}
}

func TestInteractiveApprover_AcceptsWithoutTrailingNewline(t *testing.T) {
	var output bytes.Buffer
	approver := &InteractiveApprover{
		input:  strings.NewReader("y"),
		output: &output,
	}

	approved, err := approver.RequestApproval(context.Background(), "Compile 3 documents")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !approved {
		t.Fatal("Expected approval for input without trailing newline")
	}
}

func TestConfirmApprover_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approver := NewConfirmApprover(NewStyles(false))
	approved, err := approver.RequestApproval(ctx, "Compile 3 documents")
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}
	if approved {
		t.Fatal("Expected denial on context cancellation")
	}
}

type errorReader struct {
	err error
}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

type blockingReader struct {
	done chan struct{}
}

func newBlockingReader() *blockingReader {
	return &blockingReader{done: make(chan struct{})}
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}

func (r *blockingReader) Close() error {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	return nil
}
