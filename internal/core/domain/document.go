package domain

// DocumentRecord is a document with its precomputed embedding vector.
// Records are produced by an offline ingestion step, loaded once from the
// embedding cache, and never mutated while the service is running.
type DocumentRecord struct {
	// ID is the unique identifier for the document.
	ID string

	// Content is the full text content of the document.
	Content string

	// Embedding is the dense vector representation of Content.
	// All records in a loaded corpus share the same dimension.
	Embedding []float32

	// Model is the name of the embedding model that produced the vector.
	Model string
}

// Dimension returns the length of the embedding vector.
func (r DocumentRecord) Dimension() int {
	return len(r.Embedding)
}

// Validate checks the structural invariants of a record.
func (r DocumentRecord) Validate() error {
	if r.ID == "" {
		return ErrInvalidRecord
	}
	if r.Content == "" {
		return ErrInvalidRecord
	}
	if len(r.Embedding) == 0 {
		return ErrInvalidRecord
	}
	return nil
}

// CacheStats describes a loaded embedding cache.
type CacheStats struct {
	// Count is the number of records in the corpus.
	Count int

	// Dimension is the shared embedding dimension.
	Dimension int

	// SampleIDs holds up to three record ids for diagnostics.
	SampleIDs []string

	// Models lists the distinct embedding models seen in the corpus.
	Models []string
}
