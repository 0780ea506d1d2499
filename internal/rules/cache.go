package rules

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"vela/internal/diag"
)

// Bump when the cached payload format changes.
const cacheSchemaVersion uint16 = 1

// Digest keys one module's analysis artefacts.
type Digest = [32]byte

// Cache stores per-module diagnostic lists keyed by content digests.
// A key covers the module's file hash, the program-wide digest and the
// configuration digest, so any mismatch misses and the entry is
// recomputed whole; there is no partial invalidation. File IDs are
// assigned in payload order, which keeps cached spans valid across runs.
// Thread-safe for concurrent workers.
type Cache struct {
	mu  sync.RWMutex
	dir string // "" = memory only
	mem map[Digest][]diag.Diagnostic
}

type cachePayload struct {
	Schema uint16
	Items  []diag.Diagnostic
}

// NewMemoryCache returns a process-local cache, handy for the
// file-watching use where one engine instance serves many runs.
func NewMemoryCache() *Cache {
	return &Cache{mem: make(map[Digest][]diag.Diagnostic)}
}

// OpenCache initializes a disk-backed cache at the standard location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, mem: make(map[Digest][]diag.Diagnostic)}, nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "mods", hex.EncodeToString(key[:])+".mp")
}

// Get returns the cached diagnostics for key, if present and current.
func (c *Cache) Get(key Digest) ([]diag.Diagnostic, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	items, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		return items, true
	}
	if c.dir == "" {
		return nil, false
	}

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil || payload.Schema != cacheSchemaVersion {
		return nil, false
	}
	c.mu.Lock()
	c.mem[key] = payload.Items
	c.mu.Unlock()
	return payload.Items, true
}

// Put stores diagnostics under key, atomically when disk-backed.
func (c *Cache) Put(key Digest, items []diag.Diagnostic) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	c.mem[key] = items
	c.mu.Unlock()
	if c.dir == "" {
		return nil
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := msgpack.Marshal(cachePayload{Schema: cacheSchemaVersion, Items: items})
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	// Atomic replace.
	return os.Rename(name, p)
}

// Clear drops every entry, memory and disk.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	c.mem = make(map[Digest][]diag.Diagnostic)
	c.mu.Unlock()
	if c.dir == "" {
		return nil
	}
	err := os.RemoveAll(filepath.Join(c.dir, "mods"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}
