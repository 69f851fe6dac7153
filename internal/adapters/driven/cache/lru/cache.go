// Package lru memoizes transform outcomes in a bounded LRU cache.
package lru

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.TransformCache = (*Cache)(nil)

// DefaultSize is the entry limit used when none is configured.
const DefaultSize = 128

// Stats counts cache traffic.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
}

// Cache is a fixed-size LRU of transform outcomes. Outcomes are copied on
// the way in and out.
type Cache struct {
	entries *lru.Cache
	size    int

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a cache holding at most size outcomes. A size of zero or less
// selects DefaultSize.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c := &Cache{size: size}
	entries, err := lru.NewWithEvict(size, func(_, _ interface{}) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}
	c.entries = entries
	return c, nil
}

// Get returns a copy of the outcome cached under key.
func (c *Cache) Get(key string) (*domain.TransformOutcome, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return v.(*domain.TransformOutcome).Clone(), true
}

// Add stores a copy of outcome under key.
func (c *Cache) Add(key string, outcome *domain.TransformOutcome) {
	if outcome == nil {
		return
	}
	c.entries.Add(key, outcome.Clone())
}

// Len returns the number of cached outcomes.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every entry. Purged entries do not count as evictions.
func (c *Cache) Purge() {
	n := int64(c.entries.Len())
	c.entries.Purge()
	c.evictions.Add(-n)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.entries.Len(),
		MaxSize:   c.size,
	}
}
