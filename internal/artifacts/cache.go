package artifacts

import (
	"path/filepath"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// Cache loads every artifact directory at most once and hands out the shared set.
// It is owned by the harness root; the core packages receive sets explicitly.
type Cache struct {
	load    func(dir string) (*Set, error)
	entries *xsync.MapOf[string, *cacheEntry]
}

type cacheEntry struct {
	once sync.Once
	set  *Set
	err  error
}

// NewCache creates a cache backed by LoadDir
func NewCache() *Cache {
	return NewCacheWithLoader(LoadDir)
}

// NewCacheWithLoader creates a cache that uses the given load function
func NewCacheWithLoader(load func(dir string) (*Set, error)) *Cache {
	return &Cache{
		load:    load,
		entries: xsync.NewMapOf[string, *cacheEntry](),
	}
}

// Get returns the set for dir, loading it if this is the first request.
// Concurrent callers for the same dir wait for a single load.
// A failed load is cached as well.
func (c *Cache) Get(dir string) (*Set, error) {
	key := filepath.Clean(dir)
	entry, _ := c.entries.LoadOrCompute(key, func() *cacheEntry { return &cacheEntry{} })
	entry.once.Do(func() {
		entry.set, entry.err = c.load(key)
	})
	return entry.set, entry.err
}
