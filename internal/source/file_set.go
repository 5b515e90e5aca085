package source

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// FileSet maps FileIDs to the paths of the documents they came from.
// ID 0 is reserved so the zero Loc never resolves to a real file.
// A FileSet is safe for concurrent use.
type FileSet struct {
	mu      sync.RWMutex
	paths   []string
	index   map[string]FileID
	baseDir string
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		paths: []string{""},
		index: make(map[string]FileID),
	}
}

// SetBaseDir sets the directory used by Format to relativize paths.
func (fs *FileSet) SetBaseDir(dir string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.baseDir = dir
}

// Add registers path and returns its FileID. Adding the same path twice
// returns the first ID.
func (fs *FileSet) Add(path string) FileID {
	p := filepath.ToSlash(filepath.Clean(path))
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if id, ok := fs.index[p]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(fs.paths))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	fs.paths = append(fs.paths, p)
	fs.index[p] = id
	return id
}

// Path returns the registered path of id or "" for unknown ids.
func (fs *FileSet) Path(id FileID) string {
	if fs == nil {
		return ""
	}
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if id == NoFileID || int(id) >= len(fs.paths) {
		return ""
	}
	return fs.paths[id]
}

// Len returns the number of registered files.
func (fs *FileSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.paths) - 1
}

// Format renders loc as path:line:col, relative to the base directory when possible.
func (fs *FileSet) Format(loc Loc) string {
	path := fs.Path(loc.File)
	fs.mu.RLock()
	base := fs.baseDir
	fs.mu.RUnlock()
	if path == "" {
		path = "<unknown>"
	} else if base != "" {
		if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = filepath.ToSlash(rel)
		}
	}
	if !loc.Known() {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, loc.Line, loc.Col)
}
