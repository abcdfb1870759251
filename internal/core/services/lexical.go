package services

import (
	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/logger"
)

// degradedLexicalScore is the uniform score substituted when the TF-IDF
// vocabulary degenerates (e.g. all-empty documents). Lexical ranking never
// raises to the caller.
const degradedLexicalScore = 0.05

// LexicalRanker scores documents by sparse term-weighted similarity to a
// query. The TF-IDF space is rebuilt per call over [query]+documents; each
// call owns its own vectorizer state, so concurrent queries are safe.
type LexicalRanker struct{}

// NewLexicalRanker creates a lexical ranker.
func NewLexicalRanker() *LexicalRanker {
	return &LexicalRanker{}
}

// Score computes one similarity score per record, in record order.
// A degenerate vocabulary degrades to a uniform very-low score instead of
// propagating an error.
func (r *LexicalRanker) Score(query string, records []domain.DocumentRecord) []float64 {
	if len(records) == 0 {
		return nil
	}

	logger.Debug("Lexical ranking: %d records", len(records))

	corpus := make([]string, 0, len(records)+1)
	corpus = append(corpus, query)
	for i := range records {
		corpus = append(corpus, records[i].Content)
	}

	scores, err := tfidfSimilarities(corpus)
	if err != nil {
		logger.Warn("Lexical ranking degraded, vocabulary fit failed: %v", err)
		return uniformScores(len(records), degradedLexicalScore)
	}

	logger.Debug("Lexical ranking: done")
	return scores
}
