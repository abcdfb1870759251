package mcp

import (
	"context"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// mockQuestionService is a mock implementation of driving.QuestionService.
type mockQuestionService struct {
	result        domain.AnswerResult
	health        domain.HealthReport
	valid         bool
	historySeen   []domain.QATurn
	questionsSeen []string
}

func (m *mockQuestionService) Answer(_ context.Context, question string) domain.AnswerResult {
	m.questionsSeen = append(m.questionsSeen, question)
	return m.result
}

func (m *mockQuestionService) AnswerWithHistory(
	_ context.Context,
	question string,
	history []domain.QATurn,
) domain.AnswerResult {
	m.questionsSeen = append(m.questionsSeen, question)
	m.historySeen = history
	return m.result
}

func (m *mockQuestionService) Validate(_ string) bool {
	return m.valid
}

func (m *mockQuestionService) Health(_ context.Context) domain.HealthReport {
	return m.health
}

// mockStatsQuestionService additionally implements driving.StatisticsProvider.
type mockStatsQuestionService struct {
	mockQuestionService
	usage domain.UsageReport
	reset bool
}

func (m *mockStatsQuestionService) Statistics() domain.UsageReport {
	return m.usage
}

func (m *mockStatsQuestionService) ResetStatistics() {
	m.reset = true
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results  []domain.RankedResult
	stats    domain.CacheStats
	ready    bool
	initErr  error
	err      error
	optsSeen domain.SearchOptions
}

func (m *mockRetrievalService) Initialize(_ context.Context) error {
	return m.initErr
}

func (m *mockRetrievalService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.RankedResult, error) {
	m.optsSeen = opts
	return m.results, m.err
}

func (m *mockRetrievalService) Ready() bool {
	return m.ready
}

func (m *mockRetrievalService) Stats() domain.CacheStats {
	return m.stats
}
