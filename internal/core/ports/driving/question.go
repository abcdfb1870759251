// Package driving provides interfaces for inbound adapters (primary ports).
package driving

import (
	"context"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// QuestionService answers natural-language questions over the corpus.
// Any transport (CLI, MCP, HTTP) may wrap this interface.
type QuestionService interface {
	// Answer processes one question end to end and always returns a
	// structured result; it never lets a raw error escape.
	Answer(ctx context.Context, question string) domain.AnswerResult

	// AnswerWithHistory is Answer with prior conversation turns for
	// follow-up coherence.
	AnswerWithHistory(ctx context.Context, question string, history []domain.QATurn) domain.AnswerResult

	// Validate reports whether a question is processable. It returns
	// false for malformed input and never returns an error.
	Validate(question string) bool

	// Health reports the serving state of the service.
	Health(ctx context.Context) domain.HealthReport
}

// StatisticsProvider is an optional capability for question services that
// track usage statistics. Callers check for the capability rather than for
// a concrete implementation type.
type StatisticsProvider interface {
	// Statistics returns a snapshot of running usage counters.
	Statistics() domain.UsageReport

	// ResetStatistics zeroes the running counters.
	ResetStatistics()
}
