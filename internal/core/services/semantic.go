package services

import (
	"context"
	"math"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/core/ports/driven"
	"github.com/contexta-ai/contexta/internal/logger"
)

// degradedSemanticScore is the uniform score substituted when the
// embedding service fails. Retrieval must not hard-fail on a single
// embedding error while lexical scoring remains available.
const degradedSemanticScore = 0.1

// truncationMarker is appended when a text is cut to fit the embedding
// provider's input limit.
const truncationMarker = "..."

// SemanticRanker scores documents by dense-vector similarity to a query.
type SemanticRanker struct {
	embedder driven.EmbeddingService
}

// NewSemanticRanker creates a semantic ranker using the given embedding service.
func NewSemanticRanker(embedder driven.EmbeddingService) *SemanticRanker {
	return &SemanticRanker{embedder: embedder}
}

// Score computes one similarity score per record, in record order.
// Cosine similarity is rescaled from [-1,1] to [0,1] because downstream
// fusion assumes scores live in [0,1]. An embedding failure degrades to a
// uniform low score instead of propagating.
func (r *SemanticRanker) Score(ctx context.Context, query string, records []domain.DocumentRecord) []float64 {
	if len(records) == 0 {
		return nil
	}

	logger.Debug("Semantic ranking: %d records", len(records))

	queryVec, err := r.embedder.Embed(ctx, truncateForEmbedding(query, r.embedder.MaxInputChars()))
	if err != nil {
		logger.Warn("Semantic ranking degraded, query embedding failed: %v", err)
		return uniformScores(len(records), degradedSemanticScore)
	}

	scores := make([]float64, len(records))
	for i := range records {
		cos := cosineSimilarity(queryVec, records[i].Embedding)
		scores[i] = (cos + 1) / 2
	}

	logger.Debug("Semantic ranking: done (query dimension %d)", len(queryVec))
	return scores
}

// truncateForEmbedding cuts text to the provider limit, marking the cut.
func truncateForEmbedding(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	cut := maxChars - len(truncationMarker)
	if cut < 0 {
		cut = 0
	}
	return text[:cut] + truncationMarker
}

// uniformScores returns n copies of score.
func uniformScores(n int, score float64) []float64 {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = score
	}
	return scores
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
