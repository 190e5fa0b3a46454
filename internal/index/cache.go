package index

import (
	"context"
	"sync"

	"eyeai/internal/models"
)

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]models.TextChunk
}

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]models.TextChunk)}
}

// Get implements Cache
func (c *MemoryCache) Get(_ context.Context, key string) ([]models.TextChunk, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chunks, ok := c.entries[key]
	return chunks, ok, nil
}

// Put implements Cache
func (c *MemoryCache) Put(_ context.Context, key string, chunks []models.TextChunk) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = chunks
	return nil
}

// Len returns the number of cached documents
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
