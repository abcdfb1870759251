// Package memory provides in-memory implementations of driven port interfaces,
// primarily for testing and local development.
package memory

import (
	"context"
	"sync"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// Cache is an in-memory implementation of driven.EmbeddingCache.
type Cache struct {
	mu      sync.RWMutex
	records []domain.DocumentRecord
}

// NewCache creates a new in-memory embedding cache.
func NewCache() *Cache {
	return &Cache{}
}

// NewCacheWithRecords creates a cache preloaded with the given records.
func NewCacheWithRecords(records []domain.DocumentRecord) *Cache {
	c := NewCache()
	c.records = cloneRecords(records)
	return c
}

// LoadRecords returns a copy of the stored corpus.
func (c *Cache) LoadRecords(_ context.Context) ([]domain.DocumentRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.records) == 0 {
		return nil, domain.ErrCacheMissing
	}
	return cloneRecords(c.records), nil
}

// Exists reports whether any records are stored.
func (c *Cache) Exists(_ context.Context) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records) > 0
}

// SaveRecords replaces the stored corpus.
func (c *Cache) SaveRecords(_ context.Context, records []domain.DocumentRecord) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = cloneRecords(records)
	return nil
}

// Close releases resources.
func (c *Cache) Close() error {
	return nil
}

// cloneRecords copies the slice so callers cannot mutate stored state.
func cloneRecords(records []domain.DocumentRecord) []domain.DocumentRecord {
	if records == nil {
		return nil
	}
	out := make([]domain.DocumentRecord, len(records))
	copy(out, records)
	return out
}
