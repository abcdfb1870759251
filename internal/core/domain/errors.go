package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrCacheMissing indicates no embedding cache exists to load.
	// The ingestion pipeline has not been run yet.
	ErrCacheMissing = errors.New("embedding cache not found")

	// ErrCacheCorrupt indicates the embedding cache exists but is
	// unreadable, empty, or internally inconsistent.
	ErrCacheCorrupt = errors.New("embedding cache corrupt")

	// ErrNotInitialized indicates the retrieval service has not been
	// initialised. Call Initialize before searching.
	ErrNotInitialized = errors.New("retrieval service not initialised")

	// ErrInvalidWeights indicates fusion weights do not sum to 1.0.
	// This is a configuration error, fatal at construction time.
	ErrInvalidWeights = errors.New("fusion weights must sum to 1.0")

	// ErrInvalidRecord indicates a document record is structurally invalid.
	ErrInvalidRecord = errors.New("invalid document record")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the generative service is not configured.
	// Question answering is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic ranking is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmptyResponse indicates the generative service returned no text.
	ErrEmptyResponse = errors.New("empty response from model")
)
