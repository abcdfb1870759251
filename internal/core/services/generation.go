package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/core/ports/driven"
	"github.com/contexta-ai/contexta/internal/logger"
)

// GenerationGateway wraps the generative model behind a uniform outcome
// shape. Failures never propagate as errors past this boundary: every call
// returns a GenerationOutcome and the caller decides whether to retry.
type GenerationGateway struct {
	llm     driven.LLMService
	stats   *UsageStats
	limiter *rate.Limiter

	maxTokens   int
	temperature float64
}

// NewGenerationGateway creates a gateway over the given model service.
// The stats aggregator is shared: pass the same instance to every
// component that should contribute to the process-wide usage report.
// A non-positive RequestsPerMinute disables client-side rate limiting.
func NewGenerationGateway(llm driven.LLMService, stats *UsageStats, cfg domain.GenerationSettings) *GenerationGateway {
	if stats == nil {
		stats = NewUsageStats()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &GenerationGateway{
		llm:         llm,
		stats:       stats,
		limiter:     limiter,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Generate runs one completion with the gateway's configured limits.
func (g *GenerationGateway) Generate(ctx context.Context, prompt domain.Prompt) domain.GenerationOutcome {
	return g.GenerateWith(ctx, prompt, driven.CompleteOptions{
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
}

// GenerateWith runs one completion with explicit options. It records the
// outcome in the shared usage statistics and never returns an error: any
// failure (network, model error, empty response) is reported through the
// outcome's Success and Err fields.
func (g *GenerationGateway) GenerateWith(ctx context.Context, prompt domain.Prompt, opts driven.CompleteOptions) domain.GenerationOutcome {
	g.stats.beginRequest()

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			g.stats.recordFailure()
			return domain.GenerationOutcome{
				Success: false,
				Err:     "rate limit wait interrupted: " + err.Error(),
				Model:   g.llm.ModelName(),
			}
		}
	}

	logger.Debug("Generating completion: system %d chars, user %d chars, max_tokens=%d, temperature=%.2f",
		len(prompt.System), len(prompt.User), opts.MaxTokens, opts.Temperature)

	start := time.Now()
	completion, err := g.llm.Complete(ctx, prompt.System, prompt.User, opts)
	latency := time.Since(start).Seconds()

	if err != nil {
		g.stats.recordFailure()
		logger.Warn("Generation failed after %.2fs: %v", latency, err)
		return domain.GenerationOutcome{
			Success:        false,
			Err:            err.Error(),
			LatencySeconds: latency,
			Model:          g.llm.ModelName(),
		}
	}

	if strings.TrimSpace(completion.Text) == "" {
		g.stats.recordFailure()
		logger.Warn("Generation returned an empty response after %.2fs", latency)
		return domain.GenerationOutcome{
			Success:        false,
			Err:            domain.ErrEmptyResponse.Error(),
			Usage:          completion.Usage,
			LatencySeconds: latency,
			Model:          g.llm.ModelName(),
		}
	}

	g.stats.recordSuccess(completion.Usage)
	logger.Debug("Generation succeeded in %.2fs: %d chars, %d tokens",
		latency, len(completion.Text), completion.Usage.TotalTokens)

	return domain.GenerationOutcome{
		Answer:         completion.Text,
		Success:        true,
		Usage:          completion.Usage,
		LatencySeconds: latency,
		Model:          g.llm.ModelName(),
	}
}

// Ping performs a minimal round trip to check model connectivity.
func (g *GenerationGateway) Ping(ctx context.Context) error {
	return g.llm.Ping(ctx)
}

// TestModel checks that a specific model is available on the provider.
func (g *GenerationGateway) TestModel(ctx context.Context, model string) error {
	return g.llm.TestModel(ctx, model)
}

// ModelName returns the name of the configured generative model.
func (g *GenerationGateway) ModelName() string {
	return g.llm.ModelName()
}

// Statistics returns a snapshot of the shared usage counters.
func (g *GenerationGateway) Statistics() domain.UsageReport {
	return g.stats.Report()
}

// ResetStatistics clears the shared usage counters.
func (g *GenerationGateway) ResetStatistics() {
	g.stats.Reset()
	logger.Info("Usage statistics reset")
}
