// Package cache stores instrumented output on disk, keyed by everything
// that determines it.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/vmihailenco/msgpack/v5"

	diag "strictivars/internal/errors"
)

// SchemaVersion is bumped whenever Entry changes shape.
const SchemaVersion uint16 = 1

var ErrSchemaMismatch = errors.New("cache entry has a different schema version")

var log = commonlog.GetLogger("strictivars.cache")

type Key [sha256.Size]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Entry is what the cache remembers about one instrumented file.
type Entry struct {
	Schema      uint16
	Path        string
	Output      string
	Guards      int
	Evals       int
	Disabled    bool
	HasErrors   bool
	Diagnostics []diag.Diagnostic
}

// Cache is safe for concurrent use. A nil *Cache is a valid cache that
// never hits.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir is $XDG_CACHE_HOME/strictivars, falling back to ~/.cache.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "strictivars"), nil
}

// Open prepares a cache rooted at dir, or at DefaultDir when dir is empty.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, fmt.Errorf("cache directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// KeyFor hashes the inputs of one transformation. engine identifies the
// instrumenter build; options is a canonical rendering of its options.
func KeyFor(engine, path, source, options string) Key {
	h := sha256.New()
	fmt.Fprintf(h, "schema=%d\x00engine=%s\x00", SchemaVersion, engine)
	for _, part := range []string{path, options, source} {
		fmt.Fprintf(h, "%d:", len(part))
		h.Write([]byte(part))
	}
	var key Key
	copy(key[:], h.Sum(nil))
	return key
}

func (c *Cache) pathFor(key Key) string {
	s := key.String()
	return filepath.Join(c.dir, s[:2], s+".mp")
}

// Get loads the entry for key. A missing entry is a miss, not an error;
// an entry with another schema returns ErrSchemaMismatch.
func (c *Cache) Get(key Key) (*Entry, bool, error) {
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

	var entry Entry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	if entry.Schema != SchemaVersion {
		return nil, false, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, entry.Schema, SchemaVersion)
	}
	log.Debugf("hit %s (%s)", key, entry.Path)
	return &entry, true, nil
}

// Put stores entry under key, replacing the file atomically.
func (c *Cache) Put(key Key, entry *Entry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Schema = SchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
