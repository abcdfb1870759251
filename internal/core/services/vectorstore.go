package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/core/ports/driven"
	"github.com/contexta-ai/contexta/internal/logger"
)

// maxSampleIDs bounds the number of ids reported in cache stats.
const maxSampleIDs = 3

// VectorStore holds the embedding corpus in memory for query serving.
// Loading is idempotent and memoized: once loaded, repeated calls return
// the cached copy unless Reload is used. Records are read-only after load.
type VectorStore struct {
	cache driven.EmbeddingCache

	mu      sync.RWMutex
	records []domain.DocumentRecord
	loaded  bool
}

// NewVectorStore creates a vector store backed by the given cache.
func NewVectorStore(cache driven.EmbeddingCache) *VectorStore {
	return &VectorStore{cache: cache}
}

// Load reads the corpus from the backing cache. Subsequent calls return
// the in-memory copy without touching the cache again.
func (s *VectorStore) Load(ctx context.Context) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	if s.loaded {
		records := s.records
		s.mu.RUnlock()
		logger.Debug("Vector store: serving %d records from memory", len(records))
		return records, nil
	}
	s.mu.RUnlock()

	return s.load(ctx)
}

// Reload discards the in-memory copy and reads the cache again.
func (s *VectorStore) Reload(ctx context.Context) ([]domain.DocumentRecord, error) {
	s.mu.Lock()
	s.records = nil
	s.loaded = false
	s.mu.Unlock()

	logger.Info("Vector store: forcing reload from cache")
	return s.load(ctx)
}

func (s *VectorStore) load(ctx context.Context) ([]domain.DocumentRecord, error) {
	logger.Section("Embedding Cache Load")

	if !s.cache.Exists(ctx) {
		logger.Warn("Vector store: no backing cache found")
		return nil, domain.ErrCacheMissing
	}

	records, err := s.cache.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load embedding cache: %w", err)
	}
	if len(records) == 0 {
		logger.Warn("Vector store: cache is empty")
		return nil, domain.ErrCacheCorrupt
	}

	// All records must share one embedding dimension.
	dim := records[0].Dimension()
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %q: %w", domain.ErrCacheCorrupt, records[i].ID, err)
		}
		if records[i].Dimension() != dim {
			return nil, fmt.Errorf("%w: record %q has dimension %d, corpus has %d",
				domain.ErrCacheCorrupt, records[i].ID, records[i].Dimension(), dim)
		}
	}

	s.mu.Lock()
	s.records = records
	s.loaded = true
	s.mu.Unlock()

	logger.Info("Vector store: loaded %d records (dimension %d)", len(records), dim)
	return records, nil
}

// IsLoaded reports whether the corpus is resident in memory.
func (s *VectorStore) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Records returns the in-memory corpus. Nil before a successful Load.
func (s *VectorStore) Records() []domain.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Stats describes the loaded corpus.
func (s *VectorStore) Stats() domain.CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded || len(s.records) == 0 {
		return domain.CacheStats{}
	}

	stats := domain.CacheStats{
		Count:     len(s.records),
		Dimension: s.records[0].Dimension(),
	}

	for i := 0; i < len(s.records) && i < maxSampleIDs; i++ {
		stats.SampleIDs = append(stats.SampleIDs, s.records[i].ID)
	}

	seen := make(map[string]bool)
	for i := range s.records {
		if m := s.records[i].Model; m != "" && !seen[m] {
			seen[m] = true
			stats.Models = append(stats.Models, m)
		}
	}

	return stats
}
