package pipeline

import "sync"

// Cache deduplicates pipelines by key.
type Cache struct {
	mu    sync.RWMutex
	items map[string]Pipeline
}

// NewCache returns an empty pipeline cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]Pipeline)}
}

// GetOrAdd returns the cached pipeline with p's key, storing p if none exists.
//
// Parameters:
//   - p: the candidate pipeline
//
// Returns:
//   - Pipeline: the cached pipeline
//   - bool: true if p was newly stored
func (c *Cache) GetOrAdd(p Pipeline) (Pipeline, bool) {
	c.mu.RLock()
	existing, ok := c.items[p.PipelineKey()]
	c.mu.RUnlock()
	if ok {
		return existing, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[p.PipelineKey()]; ok {
		return existing, false
	}
	c.items[p.PipelineKey()] = p
	return p, true
}

// Len returns the number of cached pipelines.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
