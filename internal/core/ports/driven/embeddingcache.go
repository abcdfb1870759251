package driven

import (
	"context"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// EmbeddingCache persists document records with their precomputed vectors.
// The read side is the serving contract: once the ingestion pipeline has
// written a set of records, a read returns the same set consistently.
//
// Backed by SQLite for local deployments and an in-memory store for tests.
type EmbeddingCache interface {
	// LoadRecords reads the full corpus. Returns domain.ErrCacheMissing
	// when no backing data exists and domain.ErrCacheCorrupt when the
	// backing format is unreadable or empty.
	LoadRecords(ctx context.Context) ([]domain.DocumentRecord, error)

	// Exists reports whether backing data is present without reading it.
	Exists(ctx context.Context) bool

	// SaveRecords replaces the stored corpus. The serving core never
	// writes; this is the ingestion-side half of the contract.
	SaveRecords(ctx context.Context, records []domain.DocumentRecord) error

	// Close releases resources.
	Close() error
}
