// Package thumbcache keeps recently served thumbnails in memory.
package thumbcache

import (
	"sync"

	"github.com/tidwall/tinylru"
)

// DefaultSize is the entry capacity used when none is configured.
const DefaultSize = 128

// Entry is one cached thumbnail.
type Entry struct {
	Data        []byte
	ContentType string
}

// Cache is a fixed-capacity LRU of thumbnails keyed by post ID. A nil or
// disabled cache never stores anything.
//
// Every Invalidate advances the cache generation. Readers that load an entry
// from the backing store take the generation first and store the result
// with PutIfCurrent, so a load racing a delete cannot restore the entry.
type Cache struct {
	lru     tinylru.LRU
	maxSize int
	enabled bool

	mu         sync.Mutex
	generation uint64
}

// New returns a cache holding up to size entries. A negative size disables
// caching.
func New(size int) *Cache {
	if size < 0 {
		return &Cache{}
	}
	if size == 0 {
		size = DefaultSize
	}
	c := &Cache{maxSize: size, enabled: true}
	c.lru.Resize(size)
	return c
}

// Get returns the entry for postID.
func (c *Cache) Get(postID string) (Entry, bool) {
	if c == nil || !c.enabled {
		return Entry{}, false
	}
	value, ok := c.lru.Get(postID)
	if !ok {
		return Entry{}, false
	}
	entry, ok := value.(Entry)
	return entry, ok
}

// Put stores entry for postID, evicting the least recently used entry when full.
func (c *Cache) Put(postID string, entry Entry) {
	if c == nil || !c.enabled {
		return
	}
	c.lru.Set(postID, entry)
}

// Generation returns the current invalidation generation.
func (c *Cache) Generation() uint64 {
	if c == nil || !c.enabled {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// PutIfCurrent stores entry only when no Invalidate ran since generation
// was read. It reports whether the entry was stored.
func (c *Cache) PutIfCurrent(postID string, generation uint64, entry Entry) bool {
	if c == nil || !c.enabled {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return false
	}
	c.lru.Set(postID, entry)
	return true
}

// Invalidate drops postID from the cache and advances the generation.
func (c *Cache) Invalidate(postID string) {
	if c == nil || !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.lru.Delete(postID)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	if c == nil || !c.enabled {
		return 0
	}
	return c.lru.Len()
}

// Cap returns the configured capacity.
func (c *Cache) Cap() int {
	if c == nil {
		return 0
	}
	return c.maxSize
}
