package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/core/ports/driving"
	"github.com/contexta-ai/contexta/internal/logger"
)

// Ensure QuestionPipeline implements the interfaces.
var (
	_ driving.QuestionService    = (*QuestionPipeline)(nil)
	_ driving.StatisticsProvider = (*QuestionPipeline)(nil)
)

const (
	// maxGenerationRetries is the number of additional attempts after the
	// first generation failure. Validation failures are never retried.
	maxGenerationRetries = 2

	// maxBackoffUnits caps the exponential backoff between attempts.
	maxBackoffUnits = 5

	minQuestionLength = 3
	maxQuestionLength = 1000

	// healthProbeQuestion is a known-valid question used to exercise the
	// validation path during health checks. It must pass validation on a
	// healthy service, so it cannot contain any denied token.
	healthProbeQuestion = "What information is available in the documents?"
)

// deniedQuestionTokens rejects obvious spam and probing input. Matching is
// by substring on the lower-cased question.
var deniedQuestionTokens = []string{
	"spam", "test", "prueba123", "asdfgh", "qwerty",
	"admin", "password", "hack", "exploit",
}

// User-facing messages for failures that survive all retries. These are
// returned as the answer text so callers can surface them directly.
const (
	msgValidationFailed = "Validation error: the question cannot be processed. Please rephrase it."
	msgServiceDelay     = "The service is experiencing delays. Please try again in a few moments."
	msgOverloaded       = "The service is temporarily overloaded. Please try again in a few minutes."
	msgAIServiceProblem = "There is a temporary problem with the AI service. Please try again later."
	msgNoRelevantInfo   = "I could not find relevant information for your question. Try rephrasing it."
	msgInternalError    = "An internal error occurred while processing your question. Please try again."
)

// QuestionPipeline is the top-level question answering flow: validate the
// question, retrieve context, compose the prompt, generate an answer and
// score the result. Transient generation failures are retried with
// exponential backoff; validation failures short-circuit immediately.
type QuestionPipeline struct {
	retrieval driving.RetrievalService
	assembler *ContextAssembler
	composer  *PromptComposer
	gateway   *GenerationGateway

	topK   int
	hybrid bool

	// backoffUnit scales the retry backoff. One second in production;
	// tests inject a smaller unit to keep retry scenarios fast.
	backoffUnit time.Duration
}

// NewQuestionPipeline wires the pipeline stages together.
func NewQuestionPipeline(
	retrieval driving.RetrievalService,
	assembler *ContextAssembler,
	composer *PromptComposer,
	gateway *GenerationGateway,
	search domain.SearchSettings,
) *QuestionPipeline {
	topK := search.TopK
	if topK <= 0 {
		topK = 5
	}

	return &QuestionPipeline{
		retrieval:   retrieval,
		assembler:   assembler,
		composer:    composer,
		gateway:     gateway,
		topK:        topK,
		hybrid:      search.Hybrid,
		backoffUnit: time.Second,
	}
}

// SetBackoffUnit overrides the retry backoff scale.
func (p *QuestionPipeline) SetBackoffUnit(unit time.Duration) {
	p.backoffUnit = unit
}

// Answer processes a standalone question.
func (p *QuestionPipeline) Answer(ctx context.Context, question string) domain.AnswerResult {
	return p.AnswerWithHistory(ctx, question, nil)
}

// AnswerWithHistory processes a question in the context of a conversation.
// When history is non-empty a follow-up prompt carrying the previous turn
// is used. The result always carries a status; this method never panics
// and never returns an error.
func (p *QuestionPipeline) AnswerWithHistory(ctx context.Context, question string, history []domain.QATurn) domain.AnswerResult {
	start := time.Now()
	id := uuid.NewString()

	logger.Section("Question Processing")
	logger.Debug("Question %s: %d chars, %d history turns", id, len(question), len(history))

	if !p.Validate(question) {
		logger.Info("Question %s rejected by validation", id)
		return domain.AnswerResult{
			ID:               id,
			Question:         question,
			Answer:           msgValidationFailed,
			Status:           domain.StatusValidationError,
			Confidence:       0,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxGenerationRetries+1; attempt++ {
		logger.Debug("Attempt %d/%d", attempt, maxGenerationRetries+1)

		result, err := p.attempt(ctx, question, history)
		if err == nil {
			result.ID = id
			result.Question = question
			result.Attempts = attempt
			result.ProcessingTimeMs = time.Since(start).Milliseconds()
			logger.Info("Question %s answered: confidence %.2f, %d sources, %dms",
				id, result.Confidence, len(result.SourceDocumentIDs), result.ProcessingTimeMs)
			return result
		}

		lastErr = err
		logger.Warn("Attempt %d failed: %v", attempt, err)

		if attempt <= maxGenerationRetries {
			if waitErr := p.waitBeforeRetry(ctx, attempt); waitErr != nil {
				logger.Warn("Retry wait interrupted: %v", waitErr)
				break
			}
		}
	}

	logger.Warn("Question %s failed after all attempts: %v", id, lastErr)
	return domain.AnswerResult{
		ID:               id,
		Question:         question,
		Answer:           mapErrorMessage(lastErr),
		Status:           domain.StatusError,
		Confidence:       0,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Attempts:         maxGenerationRetries + 1,
	}
}

// attempt runs one retrieve-assemble-compose-generate cycle.
func (p *QuestionPipeline) attempt(ctx context.Context, question string, history []domain.QATurn) (domain.AnswerResult, error) {
	ranked, err := p.retrieval.Search(ctx, question, domain.SearchOptions{
		TopK:   p.topK,
		Hybrid: p.hybrid,
	})
	if err != nil {
		return domain.AnswerResult{}, fmt.Errorf("retrieval: %w", err)
	}

	bundle := p.assembler.Assemble(ranked)
	prompt := p.composer.Build(question, bundle, history)

	outcome := p.gateway.Generate(ctx, prompt)
	if !outcome.Success {
		return domain.AnswerResult{}, errors.New(outcome.Err)
	}

	sourceIDs := make([]string, 0, len(ranked))
	for _, result := range ranked {
		if result.Document.ID != "" {
			sourceIDs = append(sourceIDs, result.Document.ID)
		}
	}

	return domain.AnswerResult{
		Answer:            outcome.Answer,
		Status:            domain.StatusSuccess,
		Confidence:        calculateConfidence(outcome.Answer, question, len(ranked)),
		SourceDocumentIDs: sourceIDs,
	}, nil
}

// waitBeforeRetry sleeps for min(2^attempt, 5) backoff units, honouring
// context cancellation.
func (p *QuestionPipeline) waitBeforeRetry(ctx context.Context, attempt int) error {
	units := 1 << attempt
	if units > maxBackoffUnits {
		units = maxBackoffUnits
	}
	wait := time.Duration(units) * p.backoffUnit

	logger.Debug("Waiting %s before retry", wait)

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Validate reports whether a question is processable. It never returns an
// error: an unprocessable question is simply false.
func (p *QuestionPipeline) Validate(question string) bool {
	cleaned := strings.TrimSpace(question)

	// Length limits count runes, not bytes, so multibyte questions
	// classify the same as their character count suggests.
	length := utf8.RuneCountInString(cleaned)
	if length < minQuestionLength || length > maxQuestionLength {
		return false
	}

	var hasAlnum bool
	allDigits := true
	for _, r := range cleaned {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasAlnum = true
		}
		if !unicode.IsDigit(r) {
			allDigits = false
		}
	}
	if !hasAlnum || allDigits {
		return false
	}

	lowered := strings.ToLower(cleaned)
	for _, token := range deniedQuestionTokens {
		if strings.Contains(lowered, token) {
			return false
		}
	}

	// Reject low-entropy input such as "aaaa" or "ababab".
	distinct := make(map[rune]bool)
	for _, r := range strings.ReplaceAll(cleaned, " ", "") {
		distinct[r] = true
	}
	if len(distinct) < 3 {
		return false
	}

	// Require at least one real word.
	hasWord := false
	for _, word := range strings.Fields(cleaned) {
		if len(word) > 2 {
			hasWord = true
			break
		}
	}
	return hasWord
}

// Health exercises the validation path with a known-valid question and
// reports corpus and usage state.
func (p *QuestionPipeline) Health(ctx context.Context) domain.HealthReport {
	probePassed := p.Validate(healthProbeQuestion)

	report := domain.HealthReport{
		Status:               "healthy",
		ValidationTestPassed: probePassed,
		Usage:                p.gateway.Statistics(),
	}
	if p.retrieval.Ready() {
		report.DocumentsLoaded = p.retrieval.Stats().Count
	}
	if !probePassed || !p.retrieval.Ready() {
		report.Status = "degraded"
	}
	return report
}

// Statistics returns the shared generation usage counters.
func (p *QuestionPipeline) Statistics() domain.UsageReport {
	return p.gateway.Statistics()
}

// ResetStatistics clears the shared generation usage counters.
func (p *QuestionPipeline) ResetStatistics() {
	p.gateway.ResetStatistics()
}

// calculateConfidence applies the additive confidence heuristic. The
// weights are historical and intentionally simple; a calibrated model
// should replace this before the score is treated as meaningful.
func calculateConfidence(answer, question string, numDocuments int) float64 {
	confidence := 0.7

	if len(answer) > 50 {
		confidence += 0.1
	}
	if len(answer) > 200 {
		confidence += 0.1
	}

	if numDocuments >= 3 {
		confidence += 0.05
	}
	if numDocuments >= 5 {
		confidence += 0.05
	}

	if len(strings.Fields(question)) >= 5 {
		confidence += 0.05
	}

	confidence = math.Round(confidence*100) / 100
	return math.Min(1.0, math.Max(0.0, confidence))
}

// mapErrorMessage converts the final error into a user-facing message by
// substring category, most specific first.
func mapErrorMessage(err error) string {
	if err == nil {
		return msgInternalError
	}
	text := strings.ToLower(err.Error())

	switch {
	case strings.Contains(text, "timeout") || strings.Contains(text, "connection"):
		return msgServiceDelay
	case strings.Contains(text, "rate limit") || strings.Contains(text, "quota"):
		return msgOverloaded
	case strings.Contains(text, "openai") || strings.Contains(text, "api"):
		return msgAIServiceProblem
	case strings.Contains(text, "embedding") || strings.Contains(text, "retrieval"):
		return msgNoRelevantInfo
	default:
		return msgInternalError
	}
}
