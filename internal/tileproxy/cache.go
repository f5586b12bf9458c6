package tileproxy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Raster tiles average roughly 35KB, so the entry budget for the LRU index
// is derived from the configured size in MB.
const approxTileKB = 35

// Cache stores base-map tiles on disk with an in-memory LRU index.
// Evicting an index entry deletes its disk blob. Only map tiles are cached
// here; analysis results never are.
type Cache struct {
	baseDir string
	mu      sync.Mutex
	index   *lru.Cache[string, string] // key -> file path
}

// NewCache creates a tile cache rooted at baseDir, sized to roughly
// maxSizeMB of tile data.
func NewCache(baseDir string, maxSizeMB int) (*Cache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	entries := maxSizeMB * 1024 / approxTileKB
	if entries < 16 {
		entries = 16
	}

	index, err := lru.NewWithEvict(entries, func(_ string, path string) {
		os.Remove(path) // Best effort cleanup
	})
	if err != nil {
		return nil, err
	}

	c := &Cache{baseDir: baseDir, index: index}
	c.loadIndex()
	return c, nil
}

// Get retrieves a tile from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	path, ok := c.index.Get(key)
	c.mu.Unlock()
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// File vanished underneath us, drop the index entry
		c.mu.Lock()
		c.index.Remove(key)
		c.mu.Unlock()
		return nil, false
	}
	return data, true
}

// Set stores a tile in cache.
func (c *Cache) Set(key string, data []byte) error {
	path := c.pathFor(key)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache subdirectory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	c.mu.Lock()
	c.index.Add(key, path)
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached tiles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Len()
}

// Clear removes all cached tiles.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index.Purge() // Eviction callback removes the files
}

// pathFor hashes the key so arbitrary template URLs stay within filesystem
// naming limits.
func (c *Cache) pathFor(key string) string {
	hash := sha256.Sum256([]byte(key))
	hashStr := hex.EncodeToString(hash[:])
	return filepath.Join(c.baseDir, hashStr[:2], hashStr+".img")
}

// loadIndex re-adopts blobs left on disk by a previous run. Keys are lost
// across restarts, so adopted blobs are indexed by filename; they still
// count toward the LRU budget and get evicted normally.
func (c *Cache) loadIndex() {
	filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(path) != ".img" {
			return nil
		}
		name := filepath.Base(path)
		c.index.Add(name[:len(name)-len(".img")], path)
		return nil
	})
}
