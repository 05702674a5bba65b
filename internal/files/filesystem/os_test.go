package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

// TestOSFileSystem_ReadWrite tests the OS provider against a temp directory.
func TestOSFileSystem_ReadWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.tex")

	p := NewOSFileSystem()
	if err := p.WriteFile(target, []byte("contenu"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	content, err := p.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "contenu" {
		t.Errorf("Unexpected content: %q", content)
	}

	if err := p.CheckWritable(target); err != nil {
		t.Errorf("Expected file writable, got: %v", err)
	}
}

// TestOSFileSystem_Walk tests traversal with relative paths.
func TestOSFileSystem_Walk(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "a.tex"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir, err := NewOSFileSystem().Open(root)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	found := false
	err = dir.Walk(func(f File, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if f.RelativePath() == filepath.Join("sub", "a.tex") {
			found = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if !found {
		t.Error("Expected to find sub/a.tex in the walk")
	}
}

// TestOSFileSystem_OpenRejectsFiles tests that Open refuses plain files.
func TestOSFileSystem_OpenRejectsFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.tex")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewOSFileSystem().Open(target); err == nil {
		t.Error("Expected an error opening a file as a directory")
	}
}
