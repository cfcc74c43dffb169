// Package cache is an on-disk cache of generated function summaries,
// keyed by a SHA-256 digest of the function's address and name and the
// generation options in effect, so a rerun over the same functions with
// the same options can skip generation entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Summary's wire shape changes.
const schemaVersion uint16 = 1

// Key identifies one cached entry: the SHA-256 of the function's address,
// name, and the options that were in effect when it was generated, so a
// changed heuristic invalidates the entry instead of returning stale text.
type Key [sha256.Size]byte

// NewKey hashes the function's identity and the generation options that
// affect its output into a cache key.
func NewKey(addr uint64, name string, optionsFingerprint uint64) Key {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%d", addr, name, optionsFingerprint)
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Summary is the cached artifact for one function: enough to reproduce
// the generator's output without rerunning the pipeline.
type Summary struct {
	Schema uint16

	FuncName string
	FuncAddr uint64

	// SourceHash is a hash of the function's IR shape, recorded by the
	// writer when generation ran and independent of the cache key itself.
	// It is stored and returned as is; nothing on the read path compares
	// it against the current IR.
	SourceHash [sha256.Size]byte

	// Dump is the textual Tree.Dump of the generated FunctionDefinition.
	Dump string

	GeneratedAt time.Time
}

// Cache is a thread-safe, msgpack-backed disk cache of Summary values.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes (creating if necessary) a cache rooted at dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: failed to create %q: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Key) string {
	return filepath.Join(c.dir, "functions", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes summary under key.
func (c *Cache) Put(key Key, summary *Summary) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	summary.Schema = schemaVersion
	if summary.GeneratedAt.IsZero() {
		summary.GeneratedAt = time.Now()
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	removeTemp := true
	defer func() {
		if removeTemp {
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(summary); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	removeTemp = false
	return nil
}

// Get reads the summary stored under key. ok is false, with a nil error,
// when the key is absent.
func (c *Cache) Get(key Key) (summary *Summary, ok bool, err error) {
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

	var s Summary
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, false, err
	}
	if s.Schema != schemaVersion {
		return nil, false, nil
	}
	return &s, true, nil
}

// DropAll invalidates every cached entry by renaming the cache directory
// aside and deleting it, mirroring Put's atomic-rename discipline.
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
	return os.RemoveAll(old)
}
