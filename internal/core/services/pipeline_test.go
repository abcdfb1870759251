package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// --- Mock implementations ---

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	results     []domain.RankedResult
	searchErr   error
	ready       bool
	stats       domain.CacheStats
	searchCalls int
}

func (m *mockRetrievalService) Initialize(_ context.Context) error {
	m.ready = true
	return nil
}

func (m *mockRetrievalService) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.RankedResult, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockRetrievalService) Ready() bool {
	return m.ready
}

func (m *mockRetrievalService) Stats() domain.CacheStats {
	return m.stats
}

// --- Test helpers ---

func newTestPipeline(t *testing.T, retrieval *mockRetrievalService, llm *mockLLMService) *QuestionPipeline {
	t.Helper()
	gateway := NewGenerationGateway(llm, NewUsageStats(), domain.GenerationSettings{MaxTokens: 1000, Temperature: 0.1})
	pipeline := NewQuestionPipeline(
		retrieval,
		NewContextAssembler(domain.ContextSettings{MaxTokens: 4000, CharsPerToken: 4.0, Strategy: domain.StrategyTopScores}),
		NewPromptComposer(),
		gateway,
		domain.SearchSettings{TopK: 5, Hybrid: true},
	)
	pipeline.SetBackoffUnit(time.Millisecond)
	return pipeline
}

func readyRetrieval() *mockRetrievalService {
	records := testRecords()
	return &mockRetrievalService{
		ready: true,
		stats: domain.CacheStats{Count: len(records), Dimension: 3},
		results: []domain.RankedResult{
			{Document: records[0], Score: 0.9},
			{Document: records[1], Score: 0.7},
			{Document: records[2], Score: 0.5},
		},
	}
}

// --- Tests ---

func TestQuestionPipeline_Validate(t *testing.T) {
	pipeline := newTestPipeline(t, readyRetrieval(), &mockLLMService{})

	tests := []struct {
		name     string
		question string
		want     bool
	}{
		{"valid question", "What is the capital of France?", true},
		{"valid short question", "Why sky blue", true},
		{"empty", "", false},
		{"whitespace only", "   \t\n ", false},
		{"too short", "ab", false},
		{"too long", strings.Repeat("why ", 300), false},
		{"purely numeric", "12345", false},
		{"no alphanumeric", "?!¿ -- ...", false},
		{"low entropy", "aaaa aa", false},
		{"denied token", "this is just spam content", false},
		{"denied token embedded", "what is the qwerty layout", false},
		{"no real word", "a of to is", false},
		// Length limits count runes: 1000 runes of accented text exceed
		// 1000 bytes but must still validate.
		{"multibyte at limit", strings.Repeat("béo ", 250), true},
		{"multibyte over limit", strings.Repeat("béo ", 250) + "xé", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.Validate(tt.question))
		})
	}
}

func TestQuestionPipeline_Answer_ValidationShortCircuits(t *testing.T) {
	retrieval := readyRetrieval()
	llm := &mockLLMService{completeText: "should never be called"}
	pipeline := newTestPipeline(t, retrieval, llm)

	result := pipeline.Answer(context.Background(), "12345")

	assert.Equal(t, domain.StatusValidationError, result.Status)
	assert.Equal(t, msgValidationFailed, result.Answer)
	assert.Zero(t, result.Confidence)
	assert.NotEmpty(t, result.ID)
	assert.Zero(t, retrieval.searchCalls, "validation failure must not retrieve")
	assert.Zero(t, llm.completeCalls, "validation failure must not generate")
}

func TestQuestionPipeline_Answer_Success(t *testing.T) {
	answer := strings.Repeat("Solar panels convert sunlight into electric current. ", 2)
	llm := &mockLLMService{
		completeText:  answer,
		completeUsage: domain.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}
	pipeline := newTestPipeline(t, readyRetrieval(), llm)

	result := pipeline.Answer(context.Background(), "How do solar panels generate electricity at home?")

	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, answer, result.Answer)
	assert.Equal(t, []string{"doc-1", "doc-2", "doc-3"}, result.SourceDocumentIDs)
	assert.Equal(t, 1, result.Attempts)
	assert.NotEmpty(t, result.ID)
	assert.GreaterOrEqual(t, result.ProcessingTimeMs, int64(0))
	// 0.7 base + 0.1 (>50 chars) + 0.05 (>=3 docs) + 0.05 (>=5 words)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
}

func TestQuestionPipeline_Answer_EmptyCorpus(t *testing.T) {
	// An empty corpus yields an empty context, not a failure: the model
	// still answers, with no sources and only the base confidence.
	llm := &mockLLMService{completeText: "I have no documents covering that topic."}
	retrieval := &mockRetrievalService{ready: true}
	pipeline := newTestPipeline(t, retrieval, llm)

	result := pipeline.Answer(context.Background(), "What does the archive say about tidal energy?")

	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, "I have no documents covering that topic.", result.Answer)
	assert.Empty(t, result.SourceDocumentIDs)
	assert.Equal(t, 1, result.Attempts)
	// 0.7 base + 0.05 (>=5 words); no document or length bonuses
	assert.InDelta(t, 0.75, result.Confidence, 1e-9)
}

func TestQuestionPipeline_Answer_RetriesThenSucceeds(t *testing.T) {
	llm := &mockLLMService{
		completeText: "Recovered answer after a transient failure upstream.",
		completeErrs: []error{errors.New("connection reset by peer")},
	}
	pipeline := newTestPipeline(t, readyRetrieval(), llm)

	result := pipeline.Answer(context.Background(), "How do solar panels work?")

	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 2, llm.completeCalls)
}

func TestQuestionPipeline_Answer_ExhaustsRetries(t *testing.T) {
	failure := errors.New("request timeout after 30s")
	llm := &mockLLMService{completeErrs: []error{failure, failure, failure}}
	pipeline := newTestPipeline(t, readyRetrieval(), llm)

	start := time.Now()
	result := pipeline.Answer(context.Background(), "How do solar panels work?")
	elapsed := time.Since(start)

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, msgServiceDelay, result.Answer)
	assert.Zero(t, result.Confidence)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, llm.completeCalls)
	// Backoff between attempts: 2 units after the first failure, 4 after
	// the second (exponential, capped at 5 units).
	assert.GreaterOrEqual(t, elapsed, 6*time.Millisecond)
}

func TestQuestionPipeline_Answer_RetrievalErrorMapsToNoInfo(t *testing.T) {
	retrieval := &mockRetrievalService{ready: true, searchErr: domain.ErrNotInitialized}
	pipeline := newTestPipeline(t, retrieval, &mockLLMService{completeText: "unused"})

	result := pipeline.Answer(context.Background(), "How do solar panels work?")

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, msgNoRelevantInfo, result.Answer)
	assert.Equal(t, 3, retrieval.searchCalls, "retrieval failures are retried")
}

func TestQuestionPipeline_AnswerWithHistory(t *testing.T) {
	llm := &mockLLMService{completeText: "It is highly efficient."}
	pipeline := newTestPipeline(t, readyRetrieval(), llm)
	history := []domain.QATurn{
		{Question: "What is solar power?", Answer: "Electricity from sunlight."},
	}

	result := pipeline.AnswerWithHistory(context.Background(), "How efficient is it compared to wind?", history)

	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Contains(t, llm.lastUser, "CONVERSATION HISTORY:")
	assert.Contains(t, llm.lastUser, "Previous question: What is solar power?")
}

func TestQuestionPipeline_Answer_CancelledContextStopsRetries(t *testing.T) {
	llm := &mockLLMService{completeErrs: []error{errors.New("timeout"), errors.New("timeout"), errors.New("timeout")}}
	pipeline := newTestPipeline(t, readyRetrieval(), llm)
	pipeline.SetBackoffUnit(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	result := pipeline.Answer(ctx, "How do solar panels work?")

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Less(t, llm.completeCalls, 3, "cancellation interrupts the retry wait")
}

func TestQuestionPipeline_Health(t *testing.T) {
	pipeline := newTestPipeline(t, readyRetrieval(), &mockLLMService{completeText: "ok"})

	report := pipeline.Health(context.Background())

	assert.Equal(t, "healthy", report.Status)
	assert.True(t, report.ValidationTestPassed)
	assert.Equal(t, 3, report.DocumentsLoaded)
}

func TestQuestionPipeline_Health_NotReady(t *testing.T) {
	pipeline := newTestPipeline(t, &mockRetrievalService{ready: false}, &mockLLMService{})

	report := pipeline.Health(context.Background())

	assert.Equal(t, "degraded", report.Status)
	assert.Zero(t, report.DocumentsLoaded)
}

func TestQuestionPipeline_Statistics(t *testing.T) {
	llm := &mockLLMService{completeText: "ok", completeUsage: domain.TokenUsage{TotalTokens: 42}}
	pipeline := newTestPipeline(t, readyRetrieval(), llm)

	pipeline.Answer(context.Background(), "How do solar panels work?")

	report := pipeline.Statistics()
	assert.Equal(t, int64(1), report.SuccessfulRequests)
	assert.Equal(t, int64(42), report.TotalTokensUsed)

	pipeline.ResetStatistics()
	assert.Zero(t, pipeline.Statistics().TotalRequests)
}

func TestCalculateConfidence(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		question string
		numDocs  int
		want     float64
	}{
		{"base only", "short", "why", 0, 0.7},
		{"substantial answer", strings.Repeat("a", 51), "why", 0, 0.8},
		{"detailed answer", strings.Repeat("a", 201), "why", 0, 0.9},
		{"all factors", strings.Repeat("a", 201), "what is the meaning of life", 5, 1.0},
		{"three documents", "short", "why", 3, 0.75},
		{"five word question", "short", "one two three four five", 0, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calculateConfidence(tt.answer, tt.question, tt.numDocs), 1e-9)
		})
	}
}

func TestMapErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", errors.New("request Timeout after 30s"), msgServiceDelay},
		{"connection", errors.New("connection refused"), msgServiceDelay},
		{"rate limit", errors.New("429 rate limit exceeded"), msgOverloaded},
		{"quota", errors.New("monthly quota exhausted"), msgOverloaded},
		{"provider", errors.New("openai: bad gateway"), msgAIServiceProblem},
		{"api", errors.New("api returned status 500"), msgAIServiceProblem},
		{"embedding", errors.New("embedding dimensions mismatch"), msgNoRelevantInfo},
		{"retrieval", errors.New("retrieval: corpus unavailable"), msgNoRelevantInfo},
		{"unknown", errors.New("something odd"), msgInternalError},
		{"nil", nil, msgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapErrorMessage(tt.err))
		})
	}
}
