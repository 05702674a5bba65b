package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type osFile struct {
	absPath string
	relPath string
	info    fs.FileInfo
}

func (f *osFile) Path() string         { return f.absPath }
func (f *osFile) RelativePath() string { return f.relPath }
func (f *osFile) Info() FileInfo       { return f.info }

func (f *osFile) ReadContent() ([]byte, error) {
	return os.ReadFile(f.absPath)
}

type osDirectory struct {
	absPath string
}

func (d *osDirectory) Path() string { return d.absPath }

func (d *osDirectory) Walk(fn func(File, error) error) error {
	return filepath.WalkDir(d.absPath, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fn(nil, walkErr)
		}

		info, err := entry.Info()
		if err != nil {
			return fn(nil, fmt.Errorf("stat %s: %w", path, err))
		}
		relPath, err := filepath.Rel(d.absPath, path)
		if err != nil {
			return fn(nil, fmt.Errorf("relative path for %s: %w", path, err))
		}

		return fn(&osFile{absPath: path, relPath: relPath, info: info}, nil)
	})
}

// OSFileSystem is the production Provider, backed by the os package.
type OSFileSystem struct{}

// NewOSFileSystem returns the production filesystem provider.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) Open(path string) (Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("access %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return &osDirectory{absPath: absPath}, nil
}

func (p *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (p *OSFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

// CheckWritable opens the file for writing without truncating or touching
// its content.
func (p *OSFileSystem) CheckWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	return f.Close()
}
