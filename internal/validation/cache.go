package validation

import (
	"container/list"
	"sync"

	"github.com/mvpagent/mvpagent/internal/domain"
)

// DefaultCacheCapacity bounds the memo so repeated validations of a long
// tail of features cannot grow memory without limit.
const DefaultCacheCapacity = 100

// LRUCache is a bounded, access-ordered memo of validation results keyed by
// feature fingerprint. When full, the least recently used entry is evicted.
// Entries never expire on their own; identical features are assumed to
// score identically for the lifetime of the process.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	fingerprint string
	result      domain.ValidationResult
}

// NewLRUCache creates a cache bounded at the given capacity. Non-positive
// capacities fall back to the default.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &LRUCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached result for a fingerprint, marking it most recently
// used on a hit.
func (c *LRUCache) Get(fingerprint string) (domain.ValidationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[fingerprint]
	if !ok {
		return domain.ValidationResult{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).result, true
}

// Set stores a result under a fingerprint, evicting the least recently used
// entry when the cache is full.
func (c *LRUCache) Set(fingerprint string, result domain.ValidationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[fingerprint]; ok {
		elem.Value.(*cacheEntry).result = result
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).fingerprint)
		}
	}

	c.entries[fingerprint] = c.order.PushFront(&cacheEntry{
		fingerprint: fingerprint,
		result:      result,
	})
}

// Len returns the number of cached results.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all cached results.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element, c.capacity)
}
