package filesystem

import (
	"io/fs"
)

// FileInfo aliases fs.FileInfo so callers stay decoupled from the concrete
// filesystem.
type FileInfo = fs.FileInfo

// File is one discovered file with its metadata and content accessor.
type File interface {
	// Path returns the absolute path to the file.
	Path() string

	// RelativePath returns the path relative to the walked root.
	RelativePath() string

	// Info returns the file metadata.
	Info() FileInfo

	// ReadContent returns the file content.
	ReadContent() ([]byte, error)
}

// Directory is a walkable directory tree.
type Directory interface {
	// Path returns the absolute path to the directory.
	Path() string

	// Walk traverses the tree in deterministic order, calling fn for every
	// entry. A non-nil return from fn stops the walk.
	Walk(fn func(File, error) error) error
}

// Provider opens directories and performs single-file operations. Document
// editing goes through WriteFile so tests can intercept writes.
type Provider interface {
	// Open opens a directory at the given path.
	Open(path string) (Directory, error)

	// ReadFile reads one file.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the content of one file.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat returns metadata for the given path.
	Stat(path string) (FileInfo, error)

	// CheckWritable reports via error whether the file at path accepts
	// writes, without modifying it.
	CheckWritable(path string) error
}
