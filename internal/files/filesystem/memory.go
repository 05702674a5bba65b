package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() any           { return nil }

type memoryFile struct {
	absPath string
	relPath string
	content []byte
	info    *memoryFileInfo
}

func (f *memoryFile) Path() string         { return f.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }
func (f *memoryFile) Info() FileInfo       { return f.info }

func (f *memoryFile) ReadContent() ([]byte, error) {
	return f.content, nil
}

type memoryDirectory struct {
	absPath string
	fs      *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

func (d *memoryDirectory) Walk(fn func(File, error) error) error {
	entries := d.fs.entriesUnder(d.absPath)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].absPath < entries[j].absPath
	})

	for _, entry := range entries {
		if err := fn(entry, nil); err != nil {
			return err
		}
	}
	return nil
}

// MemoryFileSystem is a mutable in-memory Provider for tests. Paths use
// forward slashes regardless of platform.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
	root  string
}

// NewMemoryFileSystem creates an in-memory filesystem rooted at root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))
	mfs := &MemoryFileSystem{
		files: map[string]*memoryFile{},
		root:  root,
	}
	mfs.files[root] = newMemoryDir(root, ".")
	return mfs
}

func newMemoryDir(absPath, relPath string) *memoryFile {
	return &memoryFile{
		absPath: absPath,
		relPath: relPath,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			mode:    0o755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		},
	}
}

// AddFile adds (or replaces) a file. Relative paths resolve against the root.
func (mfs *MemoryFileSystem) AddFile(filePath, content string) {
	mfs.addFile(filePath, []byte(content), 0o644)
}

// AddReadOnlyFile adds a file whose CheckWritable fails, for testing
// permission handling.
func (mfs *MemoryFileSystem) AddReadOnlyFile(filePath, content string) {
	mfs.addFile(filePath, []byte(content), 0o444)
}

func (mfs *MemoryFileSystem) addFile(filePath string, content []byte, mode fs.FileMode) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	absPath := mfs.resolve(filePath)
	relPath, err := filepath.Rel(mfs.root, absPath)
	if err != nil {
		relPath = filePath
	}

	mfs.files[absPath] = &memoryFile{
		absPath: absPath,
		relPath: filepath.ToSlash(relPath),
		content: content,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(content)),
			mode:    mode,
			modTime: time.Now(),
			isDir:   false,
		},
	}
	mfs.ensureParents(absPath)
}

func (mfs *MemoryFileSystem) ensureParents(filePath string) {
	dir := path.Dir(filePath)
	if dir == "." || dir == "/" || dir == mfs.root {
		return
	}
	if _, exists := mfs.files[dir]; exists {
		return
	}
	mfs.files[dir] = newMemoryDir(dir, strings.TrimPrefix(dir, mfs.root+"/"))
	mfs.ensureParents(dir)
}

func (mfs *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

func (mfs *MemoryFileSystem) entriesUnder(basePath string) []*memoryFile {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	var entries []*memoryFile
	for p, file := range mfs.files {
		if basePath == "/" || p == basePath || strings.HasPrefix(p, basePath+"/") {
			entries = append(entries, file)
		}
	}
	return entries
}

func (mfs *MemoryFileSystem) Open(openPath string) (Directory, error) {
	absPath := mfs.root
	if openPath != "." && openPath != "" {
		absPath = mfs.resolve(openPath)
	}

	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if file, exists := mfs.files[absPath]; exists {
		if !file.info.IsDir() {
			return nil, fmt.Errorf("not a directory: %s", openPath)
		}
		return &memoryDirectory{absPath: absPath, fs: mfs}, nil
	}
	return nil, fmt.Errorf("directory not found: %s", openPath)
}

func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	file, exists := mfs.files[mfs.resolve(filePath)]
	if !exists {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}
	if file.info.IsDir() {
		return nil, fmt.Errorf("is a directory: %s", filePath)
	}
	return file.content, nil
}

func (mfs *MemoryFileSystem) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	if err := mfs.CheckWritable(filePath); err != nil {
		mfs.mu.RLock()
		_, exists := mfs.files[mfs.resolve(filePath)]
		mfs.mu.RUnlock()
		if exists {
			return err
		}
	}
	mfs.addFile(filePath, data, perm)
	return nil
}

func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	file, exists := mfs.files[mfs.resolve(statPath)]
	if !exists {
		return nil, fmt.Errorf("path not found: %s", statPath)
	}
	return file.info, nil
}

func (mfs *MemoryFileSystem) CheckWritable(filePath string) error {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	file, exists := mfs.files[mfs.resolve(filePath)]
	if !exists {
		return fmt.Errorf("file not found: %s", filePath)
	}
	if file.info.Mode().Perm()&0o200 == 0 {
		return fmt.Errorf("file not writable: %s", filePath)
	}
	return nil
}
