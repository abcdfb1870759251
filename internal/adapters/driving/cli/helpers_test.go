package cli

import (
	"context"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/core/ports/driving"
)

// setupTestServices installs mock services and returns a cleanup function
// that restores the previous globals and flag state.
func setupTestServices() func() {
	prevQuestion := questionService
	prevRetrieval := retrievalService

	questionService = &mockQuestionService{
		result: domain.AnswerResult{
			ID:                "ans-1",
			Question:          "test question",
			Answer:            "Mock answer text.",
			Status:            domain.StatusSuccess,
			Confidence:        0.9,
			SourceDocumentIDs: []string{"doc-1"},
			Attempts:          1,
			ProcessingTimeMs:  42,
		},
		health: domain.HealthReport{
			Status:               "healthy",
			ValidationTestPassed: true,
			DocumentsLoaded:      2,
		},
		usage: domain.UsageReport{
			TotalRequests:      10,
			SuccessfulRequests: 9,
			FailedRequests:     1,
			TotalTokensUsed:    1234,
			TotalCostEstimate:  0.0123,
		},
	}
	retrievalService = &mockRetrievalService{
		ready: true,
		results: []domain.RankedResult{
			{
				Document: domain.DocumentRecord{ID: "doc-1", Content: "mock content"},
				Score:    0.87,
				Detail:   domain.ScoreDetail{SemanticScore: 0.8, LexicalScore: 0.9},
			},
		},
		stats: domain.CacheStats{
			Count:     2,
			Dimension: 768,
			SampleIDs: []string{"doc-1", "doc-2"},
			Models:    []string{"nomic-embed-text"},
		},
	}

	return func() {
		questionService = prevQuestion
		retrievalService = prevRetrieval
		askJSON = false
		askSources = false
		searchLimit = 5
		searchJSON = false
		searchSemantic = false
		statsReset = false
	}
}

// mockQuestionService implements driving.QuestionService and
// driving.StatisticsProvider for command tests.
type mockQuestionService struct {
	result domain.AnswerResult
	health domain.HealthReport
	usage  domain.UsageReport
	reset  bool
}

var _ driving.QuestionService = (*mockQuestionService)(nil)
var _ driving.StatisticsProvider = (*mockQuestionService)(nil)

func (m *mockQuestionService) Answer(_ context.Context, _ string) domain.AnswerResult {
	return m.result
}

func (m *mockQuestionService) AnswerWithHistory(
	_ context.Context,
	_ string,
	_ []domain.QATurn,
) domain.AnswerResult {
	return m.result
}

func (m *mockQuestionService) Validate(_ string) bool {
	return true
}

func (m *mockQuestionService) Health(_ context.Context) domain.HealthReport {
	return m.health
}

func (m *mockQuestionService) Statistics() domain.UsageReport {
	return m.usage
}

func (m *mockQuestionService) ResetStatistics() {
	m.reset = true
}

// mockRetrievalService implements driving.RetrievalService for command tests.
type mockRetrievalService struct {
	results []domain.RankedResult
	stats   domain.CacheStats
	ready   bool
	initErr error
	err     error
}

var _ driving.RetrievalService = (*mockRetrievalService)(nil)

func (m *mockRetrievalService) Initialize(_ context.Context) error {
	if m.initErr == nil {
		m.ready = true
	}
	return m.initErr
}

func (m *mockRetrievalService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.RankedResult, error) {
	return m.results, m.err
}

func (m *mockRetrievalService) Ready() bool {
	return m.ready
}

func (m *mockRetrievalService) Stats() domain.CacheStats {
	return m.stats
}
