package filesystem

import (
	"strings"
	"testing"
)

// TestMemoryFileSystem_ReadWrite tests the basic read/write cycle.
func TestMemoryFileSystem_ReadWrite(t *testing.T) {
	mfs := NewMemoryFileSystem("/docs")
	mfs.AddFile("cours/liaisons.tex", "\\documentclass{article}")

	content, err := mfs.ReadFile("/docs/cours/liaisons.tex")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "\\documentclass{article}" {
		t.Errorf("Unexpected content: %q", content)
	}

	if err := mfs.WriteFile("/docs/cours/liaisons.tex", []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	content, _ = mfs.ReadFile("cours/liaisons.tex")
	if string(content) != "new" {
		t.Errorf("Write not visible: %q", content)
	}
}

// TestMemoryFileSystem_Walk tests deterministic traversal.
func TestMemoryFileSystem_Walk(t *testing.T) {
	mfs := NewMemoryFileSystem("/docs")
	mfs.AddFile("b.tex", "b")
	mfs.AddFile("a/a.tex", "a")

	dir, err := mfs.Open(".")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	var paths []string
	err = dir.Walk(func(f File, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !f.Info().IsDir() {
			paths = append(paths, f.RelativePath())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if len(paths) != 2 || paths[0] != "a/a.tex" || paths[1] != "b.tex" {
		t.Errorf("Unexpected walk order: %v", paths)
	}
}

// TestMemoryFileSystem_CheckWritable tests the writability probe.
func TestMemoryFileSystem_CheckWritable(t *testing.T) {
	mfs := NewMemoryFileSystem("/docs")
	mfs.AddFile("ok.tex", "x")
	mfs.AddReadOnlyFile("ro.tex", "x")

	if err := mfs.CheckWritable("ok.tex"); err != nil {
		t.Errorf("Expected ok.tex writable, got: %v", err)
	}
	if err := mfs.CheckWritable("ro.tex"); err == nil {
		t.Error("Expected ro.tex to be reported read-only")
	}
	if err := mfs.CheckWritable("missing.tex"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not-found error, got: %v", err)
	}
}

// TestMemoryFileSystem_OpenErrors tests error cases of Open.
func TestMemoryFileSystem_OpenErrors(t *testing.T) {
	mfs := NewMemoryFileSystem("/docs")
	mfs.AddFile("x.tex", "x")

	if _, err := mfs.Open("x.tex"); err == nil {
		t.Error("Expected error opening a file as a directory")
	}
	if _, err := mfs.Open("nope"); err == nil {
		t.Error("Expected error opening a missing directory")
	}
}
