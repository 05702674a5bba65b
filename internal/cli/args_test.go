package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRequireDocumentPath_Missing(t *testing.T) {
	cmd := &cobra.Command{Use: "infos <file>"}
	err := RequireDocumentPath(cmd, nil)
	if err == nil {
		t.Fatal("Expected error for missing argument")
	}
	if !strings.Contains(err.Error(), "missing required argument") {
		t.Errorf("Expected helpful message, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Example") {
		t.Errorf("Expected example in message, got: %v", err)
	}
}

func TestRequireDocumentPath_TooMany(t *testing.T) {
	cmd := &cobra.Command{Use: "infos <file>"}
	err := RequireDocumentPath(cmd, []string{"a.tex", "b.tex"})
	if err == nil {
		t.Fatal("Expected error for too many arguments")
	}
	if !strings.Contains(err.Error(), "received 2") {
		t.Errorf("Expected received count in message, got: %v", err)
	}
}

func TestRequireDocumentPath_ExactlyOne(t *testing.T) {
	cmd := &cobra.Command{Use: "infos <file>"}
	if err := RequireDocumentPath(cmd, []string{"a.tex"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
