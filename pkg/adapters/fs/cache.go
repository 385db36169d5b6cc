package fs

import (
	"sync"
	"time"
)

// cacheEntry is the last known content of one key file.
type cacheEntry struct {
	Value        string
	Size         int64
	LastModified time.Time
}

// cache keeps file contents keyed by mtime and size so repeated reads of an
// unchanged key skip the disk.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

func newCache() *cache {
	return &cache{entries: make(map[string]*cacheEntry)}
}

// Get returns the cached value if it is fresh.
func (c *cache) Get(key string, mtime time.Time, size int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if !entry.LastModified.Equal(mtime) || entry.Size != size {
		return "", false
	}
	return entry.Value, true
}

// Set updates an entry in the cache.
func (c *cache) Set(key, value string, mtime time.Time, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{Value: value, Size: size, LastModified: mtime}
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
