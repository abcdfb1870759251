package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/core/ports/driving"
	"github.com/contexta-ai/contexta/internal/logger"
)

// Ensure RetrievalOrchestrator implements the interface.
var _ driving.RetrievalService = (*RetrievalOrchestrator)(nil)

// retrievalState tracks the orchestrator lifecycle.
type retrievalState int

const (
	stateUninitialized retrievalState = iota
	stateInitializing
	stateReady
	stateFailed
)

func (s retrievalState) String() string {
	switch s {
	case stateInitializing:
		return "initializing"
	case stateReady:
		return "ready"
	case stateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// RetrievalOrchestrator coordinates the vector store and the two rankers
// behind a single search entry point. It must be initialised before use;
// a failed initialisation may be retried, e.g. after an ingestion run has
// produced the embedding cache.
type RetrievalOrchestrator struct {
	store    *VectorStore
	semantic *SemanticRanker
	lexical  *LexicalRanker
	fusion   *ScoreFusion

	mu    sync.Mutex
	state retrievalState
}

// NewRetrievalOrchestrator creates an orchestrator in the uninitialised
// state. Weights must satisfy the fusion precondition.
func NewRetrievalOrchestrator(
	store *VectorStore,
	semantic *SemanticRanker,
	lexical *LexicalRanker,
	weights domain.FusionWeights,
) (*RetrievalOrchestrator, error) {
	fusion, err := NewScoreFusion(weights)
	if err != nil {
		return nil, err
	}

	return &RetrievalOrchestrator{
		store:    store,
		semantic: semantic,
		lexical:  lexical,
		fusion:   fusion,
	}, nil
}

// Initialize loads the embedding corpus. On failure the orchestrator
// moves to the failed state and Initialize may be called again.
func (o *RetrievalOrchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	if o.state == stateReady {
		o.mu.Unlock()
		logger.Debug("Retrieval already initialised")
		return nil
	}
	o.state = stateInitializing
	o.mu.Unlock()

	logger.Section("Retrieval Initialisation")

	_, err := o.store.Load(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state = stateFailed
		logger.Warn("Retrieval initialisation failed: %v", err)
		return fmt.Errorf("initialise retrieval: %w", err)
	}

	o.state = stateReady
	stats := o.store.Stats()
	logger.Info("Retrieval ready: %d documents, dimension %d", stats.Count, stats.Dimension)
	return nil
}

// Ready reports whether the orchestrator can serve searches.
func (o *RetrievalOrchestrator) Ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == stateReady
}

// Stats describes the loaded corpus.
func (o *RetrievalOrchestrator) Stats() domain.CacheStats {
	return o.store.Stats()
}

// Search ranks the corpus against the query and returns the top documents,
// best first. An empty corpus yields an empty result without error.
func (o *RetrievalOrchestrator) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RankedResult, error) {
	o.mu.Lock()
	state := o.state
	o.mu.Unlock()

	if state != stateReady {
		logger.Warn("Search rejected: retrieval is %s", state)
		return nil, fmt.Errorf("search in state %s: %w", state, domain.ErrNotInitialized)
	}

	records := o.store.Records()
	if len(records) == 0 {
		logger.Debug("Empty corpus, returning no results")
		return []domain.RankedResult{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = 5
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q, top_k=%d, hybrid=%t, corpus=%d", query, topK, opts.Hybrid, len(records))

	if !opts.Hybrid {
		return o.semanticOnlySearch(ctx, query, records, topK), nil
	}
	return o.hybridSearch(ctx, query, records, topK), nil
}

// hybridSearch runs the semantic and lexical rankers concurrently over the
// same immutable inputs and fuses both score lists. Neither ranker touches
// shared mutable state, so no locking is needed between them.
func (o *RetrievalOrchestrator) hybridSearch(ctx context.Context, query string, records []domain.DocumentRecord, topK int) []domain.RankedResult {
	var semanticScores, lexicalScores []float64

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		semanticScores = o.semantic.Score(ctx, query, records)
	}()

	go func() {
		defer wg.Done()
		lexicalScores = o.lexical.Score(query, records)
	}()

	wg.Wait()

	logger.Debug("Hybrid search: fusing %d semantic + %d lexical scores",
		len(semanticScores), len(lexicalScores))

	results := o.fusion.TopK(
		pairScores(records, semanticScores),
		pairScores(records, lexicalScores),
		topK,
	)

	logger.Info("Search complete: %d results", len(results))
	return results
}

// semanticOnlySearch skips lexical ranking entirely. The semantic score
// is used verbatim as the combined score, with effective weights of 1/0,
// so results are comparable to hybrid output in shape but not in scale.
func (o *RetrievalOrchestrator) semanticOnlySearch(ctx context.Context, query string, records []domain.DocumentRecord, topK int) []domain.RankedResult {
	semanticScores := o.semantic.Score(ctx, query, records)

	results := make([]domain.RankedResult, len(records))
	for i, record := range records {
		results[i] = domain.RankedResult{
			Document: record,
			Score:    semanticScores[i],
			Detail: domain.ScoreDetail{
				SemanticScore: semanticScores[i],
				LexicalScore:  0,
				Weights:       domain.FusionWeights{Semantic: 1, Lexical: 0},
			},
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK < len(results) {
		results = results[:topK]
	}

	logger.Info("Semantic-only search complete: %d results", len(results))
	return results
}

// pairScores zips records with their scores for fusion input.
func pairScores(records []domain.DocumentRecord, scores []float64) []DocumentScore {
	paired := make([]DocumentScore, len(records))
	for i, record := range records {
		paired[i] = DocumentScore{Document: record, Score: scores[i]}
	}
	return paired
}
