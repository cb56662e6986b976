package artwork

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	cacheDirName = "pistream/artwork"
	cacheMaxAge  = 30 * 24 * time.Hour
)

// Cache is a disk cache for fetched artwork, keyed by source URL.
type Cache struct {
	dir string
}

// NewCache creates the cache under the user's XDG cache directory, or under
// baseDir when given. Returns an error only if the directory cannot be
// created; a nil *Cache is safe to use and simply never hits.
func NewCache(baseDir string) (*Cache, error) {
	if baseDir == "" {
		baseDir = xdg.CacheHome
	}
	dir := filepath.Join(baseDir, cacheDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	c := &Cache{dir: dir}
	go c.pruneOldEntries()
	return c, nil
}

func cacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}

func (c *Cache) path(url string) string {
	return filepath.Join(c.dir, cacheKey(url)+".png")
}

// Get returns the cached bytes for a URL, or nil on a miss.
func (c *Cache) Get(url string) []byte {
	if c == nil {
		return nil
	}
	data, err := os.ReadFile(c.path(url))
	if err != nil {
		return nil
	}
	return data
}

// Put stores fetched artwork. Failures are ignored; the cache is advisory.
func (c *Cache) Put(url string, data []byte) {
	if c == nil {
		return
	}
	_ = os.WriteFile(c.path(url), data, 0o644)
}

// Remove drops a cache entry.
func (c *Cache) Remove(url string) {
	if c == nil {
		return
	}
	_ = os.Remove(c.path(url))
}

// pruneOldEntries deletes entries older than cacheMaxAge.
func (c *Cache) pruneOldEntries() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-cacheMaxAge)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(c.dir, entry.Name()))
		}
	}
}
