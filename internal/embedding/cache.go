package embedding

import (
	"container/list"
	"sync"
)

// EmbeddingCache is an LRU of byte embeddings keyed by the source text.
// Vectors are copied on the way in and out so callers may mutate them.
type EmbeddingCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front is most recently used
	hits     uint64
	misses   uint64
}

type cacheEntry struct {
	text   string
	vector []float32
}

// CacheStats is a point-in-time view of cache effectiveness.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// NewEmbeddingCache creates a cache holding at most capacity vectors.
func NewEmbeddingCache(capacity int) *EmbeddingCache {
	return &EmbeddingCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns a copy of the vector for text and refreshes its recency.
func (c *EmbeddingCache) Get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[text]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(elem)
	return clone(elem.Value.(*cacheEntry).vector), true
}

// Set stores a copy of vector, dropping the least recently used entry when full.
func (c *EmbeddingCache) Set(text string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[text]; ok {
		elem.Value.(*cacheEntry).vector = clone(vector)
		c.order.MoveToFront(elem)
		return
	}
	c.items[text] = c.order.PushFront(&cacheEntry{text: text, vector: clone(vector)})
	for c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *EmbeddingCache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.items, oldest.Value.(*cacheEntry).text)
}

// Len returns the number of cached vectors.
func (c *EmbeddingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns entry count and hit/miss counters.
func (c *EmbeddingCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Entries: c.order.Len(), Hits: c.hits, Misses: c.misses}
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
