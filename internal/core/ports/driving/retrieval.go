package driving

import (
	"context"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// RetrievalService finds the corpus documents most relevant to a query.
type RetrievalService interface {
	// Initialize loads the embedding corpus. It may be retried after a
	// failure, e.g. once an ingestion run has produced the cache.
	Initialize(ctx context.Context) error

	// Search returns the top documents for the query, best first.
	// It is only valid after a successful Initialize.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RankedResult, error)

	// Ready reports whether the service can serve searches.
	Ready() bool

	// Stats describes the loaded corpus.
	Stats() domain.CacheStats
}
