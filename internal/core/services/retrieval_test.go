package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// --- Test helpers ---

func newTestOrchestrator(t *testing.T, cache *mockEmbeddingCache, embedder *mockEmbeddingService) *RetrievalOrchestrator {
	t.Helper()
	orchestrator, err := NewRetrievalOrchestrator(
		NewVectorStore(cache),
		NewSemanticRanker(embedder),
		NewLexicalRanker(),
		defaultWeights(),
	)
	require.NoError(t, err)
	return orchestrator
}

// --- Tests ---

func TestNewRetrievalOrchestrator_InvalidWeights(t *testing.T) {
	_, err := NewRetrievalOrchestrator(
		NewVectorStore(&mockEmbeddingCache{}),
		NewSemanticRanker(&mockEmbeddingService{}),
		NewLexicalRanker(),
		domain.FusionWeights{Semantic: 0.9, Lexical: 0.9},
	)

	assert.ErrorIs(t, err, domain.ErrInvalidWeights)
}

func TestRetrievalOrchestrator_SearchBeforeInitialize(t *testing.T) {
	orchestrator := newTestOrchestrator(t,
		&mockEmbeddingCache{records: testRecords(), exists: true},
		&mockEmbeddingService{embedding: []float32{1, 0, 0}})

	_, err := orchestrator.Search(context.Background(), "solar", domain.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
	assert.False(t, orchestrator.Ready())
}

func TestRetrievalOrchestrator_Initialize(t *testing.T) {
	orchestrator := newTestOrchestrator(t,
		&mockEmbeddingCache{records: testRecords(), exists: true},
		&mockEmbeddingService{embedding: []float32{1, 0, 0}})

	err := orchestrator.Initialize(context.Background())

	require.NoError(t, err)
	assert.True(t, orchestrator.Ready())
	assert.Equal(t, 3, orchestrator.Stats().Count)
}

func TestRetrievalOrchestrator_Initialize_FailureIsRetriable(t *testing.T) {
	cache := &mockEmbeddingCache{exists: false}
	orchestrator := newTestOrchestrator(t, cache,
		&mockEmbeddingService{embedding: []float32{1, 0, 0}})
	ctx := context.Background()

	err := orchestrator.Initialize(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheMissing)
	assert.False(t, orchestrator.Ready())

	// The cache appears (e.g. an ingestion run completed); retry succeeds.
	cache.records = testRecords()
	cache.exists = true

	require.NoError(t, orchestrator.Initialize(ctx))
	assert.True(t, orchestrator.Ready())
}

func TestRetrievalOrchestrator_Initialize_Idempotent(t *testing.T) {
	cache := &mockEmbeddingCache{records: testRecords(), exists: true}
	orchestrator := newTestOrchestrator(t, cache,
		&mockEmbeddingService{embedding: []float32{1, 0, 0}})
	ctx := context.Background()

	require.NoError(t, orchestrator.Initialize(ctx))
	require.NoError(t, orchestrator.Initialize(ctx))

	assert.Equal(t, 1, cache.loadCalls)
}

func TestRetrievalOrchestrator_Search_Hybrid(t *testing.T) {
	orchestrator := newTestOrchestrator(t,
		&mockEmbeddingCache{records: testRecords(), exists: true},
		&mockEmbeddingService{embedding: []float32{1, 0, 0}})
	ctx := context.Background()
	require.NoError(t, orchestrator.Initialize(ctx))

	results, err := orchestrator.Search(ctx, "solar panels electricity", domain.SearchOptions{
		TopK:   2,
		Hybrid: true,
	})

	require.NoError(t, err)
	require.Len(t, results, 2)
	// doc-1 wins on both semantic (parallel vector) and lexical overlap.
	assert.Equal(t, "doc-1", results[0].Document.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.Equal(t, defaultWeights(), results[0].Detail.Weights)
}

func TestRetrievalOrchestrator_Search_SemanticOnly(t *testing.T) {
	orchestrator := newTestOrchestrator(t,
		&mockEmbeddingCache{records: testRecords(), exists: true},
		&mockEmbeddingService{embedding: []float32{1, 0, 0}})
	ctx := context.Background()
	require.NoError(t, orchestrator.Initialize(ctx))

	results, err := orchestrator.Search(ctx, "solar", domain.SearchOptions{
		TopK:   3,
		Hybrid: false,
	})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "doc-1", results[0].Document.ID)
	// Semantic-only reports the raw semantic score with unit weights.
	assert.Equal(t, results[0].Detail.SemanticScore, results[0].Score)
	assert.Zero(t, results[0].Detail.LexicalScore)
	assert.Equal(t, domain.FusionWeights{Semantic: 1, Lexical: 0}, results[0].Detail.Weights)
}

func TestRetrievalOrchestrator_Search_EmbeddingFailureDegrades(t *testing.T) {
	orchestrator := newTestOrchestrator(t,
		&mockEmbeddingCache{records: testRecords(), exists: true},
		&mockEmbeddingService{embedErr: errors.New("embedding service down")})
	ctx := context.Background()
	require.NoError(t, orchestrator.Initialize(ctx))

	results, err := orchestrator.Search(ctx, "solar panels electricity", domain.SearchOptions{
		TopK:   3,
		Hybrid: true,
	})

	// Lexical scoring still differentiates documents.
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "doc-1", results[0].Document.ID)
	for _, r := range results {
		assert.Equal(t, degradedSemanticScore, r.Detail.SemanticScore)
	}
}
