// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"container/list"
	"sync"

	"github.com/IT2357/catalog-engine/pkg/types"
)

// Cache maps an exact trimmed query string to its merged result list.
type Cache interface {
	Get(query string) ([]types.ResultRecord, bool)
	Put(query string, records []types.ResultRecord)
	Len() int
}

// NewCache returns an in-memory query cache. With maxEntries <= 0 entries
// are never evicted; otherwise the least recently used query is dropped
// once the cache holds maxEntries queries.
func NewCache(maxEntries int) Cache {
	return &memoryCache{
		max:     maxEntries,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

type cacheEntry struct {
	query   string
	records []types.ResultRecord
}

type memoryCache struct {
	mu      sync.Mutex
	max     int
	order   *list.List // front is most recently used
	entries map[string]*list.Element
}

func (c *memoryCache) Get(query string) ([]types.ResultRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[query]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return cloneRecords(el.Value.(*cacheEntry).records), true
}

func (c *memoryCache) Put(query string, records []types.ResultRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[query]; ok {
		el.Value.(*cacheEntry).records = cloneRecords(records)
		c.order.MoveToFront(el)
		return
	}

	c.entries[query] = c.order.PushFront(&cacheEntry{query: query, records: cloneRecords(records)})

	if c.max > 0 && c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).query)
	}
}

func (c *memoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func cloneRecords(records []types.ResultRecord) []types.ResultRecord {
	if records == nil {
		return []types.ResultRecord{}
	}
	out := make([]types.ResultRecord, len(records))
	copy(out, records)
	return out
}
