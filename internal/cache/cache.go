// Package cache keeps script metadata keyed by a fingerprint of the script's
// name and text, so unchanged scripts are not re-classified between runs.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/phobologic/ahkguide/internal/model"
)

// DefaultSize is the number of entries kept in memory.
const DefaultSize = 4096

// formatVersion changes whenever classification rules change, which
// invalidates every persisted entry.
const formatVersion = 1

// Fingerprint hashes a script's name and text. The name takes part because
// file names drive concept and category overrides.
func Fingerprint(filename, content string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(filename)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(content)
	return d.Sum64()
}

// Cache is an LRU of metadata optionally backed by a JSON file.
// It is safe for concurrent use.
type Cache struct {
	path    string
	entries *lru.Cache[uint64, model.ScriptMetadata]
}

type fileEntry struct {
	Fingerprint string               `json:"fingerprint"`
	Metadata    model.ScriptMetadata `json:"metadata"`
}

type fileFormat struct {
	Version int         `json:"version"`
	Entries []fileEntry `json:"entries"`
}

// New returns an in-memory cache holding up to size entries.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[uint64, model.ScriptMetadata](size)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Open returns a cache persisted at path, loading any existing entries.
// A missing file, or one written by another format version, yields an empty cache.
func Open(path string, size int) (*Cache, error) {
	c, err := New(size)
	if err != nil {
		return nil, err
	}
	c.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache %s: %w", path, err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parsing cache %s: %w", path, err)
	}
	if ff.Version != formatVersion {
		return c, nil
	}
	for _, e := range ff.Entries {
		fp, err := strconv.ParseUint(e.Fingerprint, 16, 64)
		if err != nil {
			continue
		}
		c.entries.Add(fp, e.Metadata)
	}
	return c, nil
}

// Get returns the cached metadata for a script, if present.
func (c *Cache) Get(filename, content string) (model.ScriptMetadata, bool) {
	return c.entries.Get(Fingerprint(filename, content))
}

// Put stores metadata for a script.
func (c *Cache) Put(filename, content string, md model.ScriptMetadata) {
	c.entries.Add(Fingerprint(filename, content), md)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Save writes the cache to its backing file. In-memory caches are a no-op.
func (c *Cache) Save() error {
	if c.path == "" {
		return nil
	}

	ff := fileFormat{Version: formatVersion}
	for _, fp := range c.entries.Keys() {
		md, ok := c.entries.Peek(fp)
		if !ok {
			continue
		}
		ff.Entries = append(ff.Entries, fileEntry{
			Fingerprint: strconv.FormatUint(fp, 16),
			Metadata:    md,
		})
	}

	data, err := json.Marshal(ff)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache dir: %w", err)
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache %s: %w", c.path, err)
	}
	return nil
}
