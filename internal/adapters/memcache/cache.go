// Package memcache implements ports.MessageCache as a bounded in-memory LRU,
// optionally layered over a persistent cache. Watch mode re-extracts the same
// files repeatedly; the LRU keeps those hits off disk.
package memcache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/corey/jsgettext/internal/ports"
)

// DefaultSize is the number of file entries kept in memory.
const DefaultSize = 1024

// Cache is an LRU in front of an optional backing MessageCache.
type Cache struct {
	entries *lru.Cache[string, []ports.Message]
	backing ports.MessageCache // nil for memory only
}

var _ ports.MessageCache = (*Cache)(nil)

// New creates a cache holding up to size entries. backing may be nil.
func New(size int, backing ports.MessageCache) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, []ports.Message](size)
	if err != nil {
		return nil, fmt.Errorf("memcache: %w", err)
	}
	return &Cache{entries: entries, backing: backing}, nil
}

// Get checks memory first, then the backing cache. Backing hits are
// promoted into memory.
func (c *Cache) Get(key string) ([]ports.Message, bool, error) {
	if msgs, ok := c.entries.Get(key); ok {
		return clone(msgs), true, nil
	}
	if c.backing == nil {
		return nil, false, nil
	}
	msgs, ok, err := c.backing.Get(key)
	if err != nil || !ok {
		return nil, false, err
	}
	c.entries.Add(key, clone(msgs))
	return msgs, true, nil
}

// Put writes through to the backing cache, then memory. A backing failure
// leaves memory untouched.
func (c *Cache) Put(key string, msgs []ports.Message) error {
	if c.backing != nil {
		if err := c.backing.Put(key, msgs); err != nil {
			return err
		}
	}
	c.entries.Add(key, clone(msgs))
	return nil
}

// Purge clears memory and the backing cache.
func (c *Cache) Purge() error {
	c.entries.Purge()
	if c.backing != nil {
		return c.backing.Purge()
	}
	return nil
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// clone copies the slice so callers cannot mutate cached entries.
// Comment slices are shared; nothing in the pipeline mutates them.
func clone(msgs []ports.Message) []ports.Message {
	out := make([]ports.Message, len(msgs))
	copy(out, msgs)
	return out
}
