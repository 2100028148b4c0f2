package mocks

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/frameharvest/pkg/ports"
)

// FileSystem is an in-memory implementation of ports.FileSystem.
// Paths are cleaned and compared with forward slashes.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	WriteFileFunc func(path string, data []byte) error
	ReadDirFunc   func(path string) ([]fs.DirEntry, error)
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func norm(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

func (m *FileSystem) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[norm(p)]; ok {
		return data, nil
	}
	return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
}

func (m *FileSystem) WriteFile(p string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(p, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[norm(p)] = data
	m.markParents(norm(p))
	return nil
}

func (m *FileSystem) MkdirAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := norm(p)
	m.dirs[n] = true
	m.markParents(n)
	return nil
}

func (m *FileSystem) markParents(p string) {
	for d := path.Dir(p); d != "." && d != "/" && !m.dirs[d]; d = path.Dir(d) {
		m.dirs[d] = true
	}
}

func (m *FileSystem) Exists(p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := norm(p)
	if _, ok := m.files[n]; ok {
		return true, nil
	}
	return m.dirs[n], nil
}

func (m *FileSystem) ReadDir(p string) ([]fs.DirEntry, error) {
	if m.ReadDirFunc != nil {
		return m.ReadDirFunc(p)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir := norm(p)
	if !m.dirs[dir] {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}

	seen := make(map[string]bool)
	var entries []fs.DirEntry
	for f := range m.files {
		if path.Dir(f) == dir {
			entries = append(entries, dirEntry{name: path.Base(f)})
		}
	}
	for d := range m.dirs {
		if path.Dir(d) == dir && d != dir && !seen[d] {
			seen[d] = true
			entries = append(entries, dirEntry{name: path.Base(d), dir: true})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *FileSystem) WalkFiles(root string, fn func(path string) error) error {
	m.mu.RLock()
	prefix := norm(root) + "/"
	var paths []string
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			paths = append(paths, f)
		}
	}
	m.mu.RUnlock()

	sort.Strings(paths)
	for _, p := range paths {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *FileSystem) RemoveAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := norm(p)
	prefix := n + "/"
	for f := range m.files {
		if f == n || strings.HasPrefix(f, prefix) {
			delete(m.files, f)
		}
	}
	for d := range m.dirs {
		if d == n || strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return nil
}

// Remove deletes a single file (for simulating partial output in tests).
func (m *FileSystem) Remove(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, norm(p))
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(p string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[norm(p)]
	return data, ok
}

// FilesUnder returns the sorted base names of files directly inside dir.
func (m *FileSystem) FilesUnder(dir string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d := norm(dir)
	var names []string
	for f := range m.files {
		if path.Dir(f) == d {
			names = append(names, path.Base(f))
		}
	}
	sort.Strings(names)
	return names
}

type dirEntry struct {
	name string
	dir  bool
}

func (e dirEntry) Name() string { return e.name }
func (e dirEntry) IsDir() bool  { return e.dir }
func (e dirEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}
	return 0
}
func (e dirEntry) Info() (fs.FileInfo, error) { return fileInfo(e), nil }

type fileInfo dirEntry

func (i fileInfo) Name() string       { return i.name }
func (i fileInfo) Size() int64        { return 0 }
func (i fileInfo) Mode() fs.FileMode  { return dirEntry(i).Type() }
func (i fileInfo) ModTime() time.Time { return time.Time{} }
func (i fileInfo) IsDir() bool        { return i.dir }
func (i fileInfo) Sys() any           { return nil }

var _ ports.FileSystem = (*FileSystem)(nil)
