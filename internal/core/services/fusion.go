package services

import (
	"fmt"
	"sort"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/logger"
)

// DocumentScore pairs a record with one ranker's score.
type DocumentScore struct {
	Document domain.DocumentRecord
	Score    float64
}

// ScoreFusion merges semantic and lexical scores into one ranked list via
// a weighted linear combination.
type ScoreFusion struct {
	weights domain.FusionWeights
}

// NewScoreFusion creates a score fusion with the given weights.
// Weights that do not sum to 1.0 are a configuration error.
func NewScoreFusion(weights domain.FusionWeights) (*ScoreFusion, error) {
	if !weights.Valid() {
		return nil, fmt.Errorf("%w: semantic=%.3f lexical=%.3f",
			domain.ErrInvalidWeights, weights.Semantic, weights.Lexical)
	}
	return &ScoreFusion{weights: weights}, nil
}

// Weights returns the configured fusion weights.
func (f *ScoreFusion) Weights() domain.FusionWeights {
	return f.weights
}

// Combine computes per-document weighted sums matched by document id and
// returns results sorted descending by combined score. A document present
// in only one list scores 0 on the missing side. The sort is stable,
// preserving semantic-list order among equal combined scores.
func (f *ScoreFusion) Combine(semantic, lexical []DocumentScore) []domain.RankedResult {
	lexicalByID := make(map[string]float64, len(lexical))
	for _, ds := range lexical {
		lexicalByID[ds.Document.ID] = ds.Score
	}

	seen := make(map[string]bool, len(semantic))
	results := make([]domain.RankedResult, 0, len(semantic)+len(lexical))

	for _, ds := range semantic {
		seen[ds.Document.ID] = true
		results = append(results, f.fuse(ds.Document, ds.Score, lexicalByID[ds.Document.ID]))
	}

	// Documents only the lexical ranker saw score 0 on the semantic side.
	for _, ds := range lexical {
		if seen[ds.Document.ID] {
			continue
		}
		results = append(results, f.fuse(ds.Document, 0, ds.Score))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	logger.Debug("Score fusion: combined %d semantic + %d lexical into %d results",
		len(semantic), len(lexical), len(results))

	return results
}

// TopK combines both score lists and truncates to the best k results.
func (f *ScoreFusion) TopK(semantic, lexical []DocumentScore, k int) []domain.RankedResult {
	results := f.Combine(semantic, lexical)
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

func (f *ScoreFusion) fuse(doc domain.DocumentRecord, semanticScore, lexicalScore float64) domain.RankedResult {
	combined := f.weights.Semantic*semanticScore + f.weights.Lexical*lexicalScore
	return domain.RankedResult{
		Document: doc,
		Score:    combined,
		Detail: domain.ScoreDetail{
			SemanticScore: semanticScore,
			LexicalScore:  lexicalScore,
			Weights:       f.weights,
		},
	}
}
