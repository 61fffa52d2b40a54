// Package cache provides a bounded LRU cache for file contents with
// modification-time staleness checks.
package cache

import (
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry pairs cached bytes with the file's modification time as observed
// when the bytes were read.
type entry struct {
	content  []byte
	modified time.Time
}

// FileCache is an LRU cache of file contents keyed by path. It is not
// safe for concurrent use; callers serialize access with their own lock.
type FileCache struct {
	capacity int
	entries  *lru.Cache[string, entry]
}

// New creates a FileCache holding at most capacity entries. Capacity must
// be positive; sizing fallbacks belong at the call site.
func New(capacity int) (*FileCache, error) {
	if capacity <= 0 {
		return nil, errors.New("cache: capacity must be positive")
	}
	entries, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &FileCache{capacity: capacity, entries: entries}, nil
}

// Find returns the cached contents for name if present and still current.
// An entry whose stored modification time differs from modified is stale
// and reported as a miss. A lookup refreshes the entry's recency either
// way.
func (c *FileCache) Find(name string, modified time.Time) ([]byte, bool) {
	e, ok := c.entries.Get(name)
	if !ok {
		return nil, false
	}
	if !e.modified.Equal(modified) {
		return nil, false
	}
	return e.content, true
}

// Push stores contents for name under the given modification time,
// replacing any previous entry and marking it most recently used.
func (c *FileCache) Push(name string, contents []byte, modified time.Time) {
	c.entries.Add(name, entry{content: contents, modified: modified})
}

// Len returns the number of cached entries.
func (c *FileCache) Len() int {
	return c.entries.Len()
}

// Cap returns the configured capacity.
func (c *FileCache) Cap() int {
	return c.capacity
}

// ShouldCache reports whether a file of the given size is small enough to
// cache. Anything above the streaming threshold is served from disk.
func ShouldCache(size, threshold int64) bool {
	return size <= threshold
}
