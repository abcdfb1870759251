package domain

// TokenUsage holds token accounting for a single generation call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerationOutcome is the uniform result of one generation call.
// The gateway never raises past its boundary; failures are carried in
// Success and Err so the pipeline can decide whether to retry.
type GenerationOutcome struct {
	// Answer is the generated text. Empty when Success is false.
	Answer string

	// Success is true when the model returned usable text.
	Success bool

	// Err is the failure description when Success is false.
	Err string

	// Usage is the token accounting reported by the model.
	Usage TokenUsage

	// LatencySeconds is the wall time of the call.
	LatencySeconds float64

	// Model is the model that served the call.
	Model string
}

// AnswerStatus classifies the outcome of a processed question.
type AnswerStatus string

// Answer statuses.
const (
	// StatusSuccess means a grounded answer was produced.
	StatusSuccess AnswerStatus = "success"

	// StatusValidationError means the question failed input validation.
	// Validation failures are never retried.
	StatusValidationError AnswerStatus = "validation_error"

	// StatusError means processing failed after exhausting retries.
	StatusError AnswerStatus = "error"
)

// AnswerResult is the final structured output for one question.
type AnswerResult struct {
	// ID uniquely identifies this answer.
	ID string

	// Question is the original question text.
	Question string

	// Answer is the generated answer, or a user-facing error message.
	Answer string

	// Status classifies the outcome.
	Status AnswerStatus

	// Confidence is a heuristic reliability estimate in [0,1].
	// It is not a calibrated probability.
	Confidence float64

	// SourceDocumentIDs lists the retrieved documents in score order.
	// These are weak references; the result never owns the records.
	SourceDocumentIDs []string

	// ProcessingTimeMs is the total wall time including retries.
	ProcessingTimeMs int64

	// Attempts is the number of generation attempts made.
	Attempts int
}

// UsageReport is a snapshot of the gateway's running usage counters.
type UsageReport struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	TotalTokensUsed    int64
	TotalCostEstimate  float64
}

// SuccessRate returns the fraction of successful requests in [0,1].
func (u UsageReport) SuccessRate() float64 {
	if u.TotalRequests == 0 {
		return 0
	}
	return float64(u.SuccessfulRequests) / float64(u.TotalRequests)
}

// HealthReport describes the serving state of the question service.
type HealthReport struct {
	// Status is "healthy" or "degraded".
	Status string

	// ValidationTestPassed is true when the validation probe succeeded.
	ValidationTestPassed bool

	// DocumentsLoaded is the corpus size, when retrieval is initialised.
	DocumentsLoaded int

	// Usage is the current generation usage snapshot.
	Usage UsageReport
}
