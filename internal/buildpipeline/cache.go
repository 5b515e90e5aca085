package buildpipeline

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ccgen/internal/backend/llvm"
	"ccgen/internal/diag"
	"ccgen/internal/project"
	"ccgen/internal/source"
	"ccgen/internal/version"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// Cache stores rendered modules on disk keyed by input contents and codegen
// settings. Thread-safe for concurrent access. A nil *Cache is a valid,
// always-missing cache.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is one cached unit.
type CachePayload struct {
	Schema   uint16
	Module   string
	IR       string
	Warnings []CachedDiagnostic
}

// CachedDiagnostic is a warning without its FileID, which is only valid
// inside the FileSet of the run that produced it.
type CachedDiagnostic struct {
	Code    uint16
	Line    uint32
	Col     uint32
	Message string
}

// OpenCache initializes a cache rooted at dir.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenUserCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenUserCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCache(filepath.Join(base, app))
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey digests everything that influences the rendered module.
func CacheKey(content project.Digest, module string, opts llvm.Options) project.Digest {
	return project.Combine(content,
		project.HashString(version.Version),
		project.HashString(module),
		project.HashString(opts.TargetTriple),
		project.HashString(opts.Unreachable.String()),
	)
}

func (c *Cache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "ir", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *Cache) Put(key project.Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	payload.Schema = cacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(tmp, p)
}

// Get reads a payload. A stale schema counts as a miss.
func (c *Cache) Get(key project.Digest) (*CachePayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()
	var payload CachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func cacheWarnings(bag *diag.Bag) []CachedDiagnostic {
	var out []CachedDiagnostic
	for _, d := range bag.Items() {
		if d.Severity != diag.SevWarning {
			continue
		}
		out = append(out, CachedDiagnostic{
			Code:    uint16(d.Code),
			Line:    d.Primary.Line,
			Col:     d.Primary.Col,
			Message: d.Message,
		})
	}
	return out
}

func replayWarnings(bag *diag.Bag, file source.FileID, warnings []CachedDiagnostic) {
	for _, w := range warnings {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.Code(w.Code),
			Message:  w.Message,
			Primary:  source.Loc{File: file, Line: w.Line, Col: w.Col},
		})
	}
}
