// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// LLMService produces text completions from a system/user instruction pair.
//
// Implementations may include:
//   - OpenAI (GPT-4o, GPT-4o-mini)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Complete produces a completion for the given prompt pair.
	// An empty completion is an error; implementations never return
	// a nil Completion alongside a nil error.
	Complete(ctx context.Context, system, user string, opts CompleteOptions) (*Completion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// TestModel checks whether a specific model is available with a
	// minimal round trip.
	TestModel(ctx context.Context, model string) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures a single completion call.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// Completion is a successful completion with its token accounting.
type Completion struct {
	// Text is the generated completion.
	Text string

	// Usage is the token usage reported by the provider. Providers that
	// do not report usage leave it zero.
	Usage domain.TokenUsage
}
