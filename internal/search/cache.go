package search

import (
	"container/list"
	"sync"
	"time"
)

const (
	defaultCacheCapacity = 100
	defaultCacheTTL      = 60 * time.Second
)

// Key is the exact-match composite a cached response is stored under.
// The query must already be canonicalized; two requests differing in any
// component never share an entry.
type Key struct {
	Query  string
	Filter Filter
	Page   int
	Limit  int
}

type cacheEntry struct {
	key       Key
	value     *Response
	expiresAt time.Time
}

// ResponseCache is a capacity-bounded LRU cache with per-entry TTL.
// Inserting past capacity evicts the least-recently-used entry; an entry
// past its TTL is treated as absent even if not yet evicted for space.
type ResponseCache struct {
	capacity int
	ttl      time.Duration

	mu      sync.Mutex
	entries map[Key]*list.Element
	lru     *list.List

	now func() time.Time
}

// NewResponseCache creates a cache with the default bounds (100 entries, 60s).
func NewResponseCache() *ResponseCache {
	return NewResponseCacheWith(defaultCacheCapacity, defaultCacheTTL)
}

// NewResponseCacheWith creates a cache with explicit bounds.
func NewResponseCacheWith(capacity int, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[Key]*list.Element),
		lru:      list.New(),
		now:      time.Now,
	}
}

// Get returns the cached response for key if present and unexpired.
// A hit refreshes the entry's recency; an expired entry is removed.
func (c *ResponseCache) Get(key Key) (*Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.removeLocked(elem)
		return nil, false
	}

	c.lru.MoveToFront(elem)
	return entry.value, true
}

// Set stores the response for key, resetting its TTL and evicting the
// least-recently-used entry when over capacity.
func (c *ResponseCache) Set(key Key, value *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = elem

	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *ResponseCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.lru.Remove(elem)
}
