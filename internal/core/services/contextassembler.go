package services

import (
	"fmt"
	"strings"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/logger"
)

// documentSeparator joins rendered documents in the context block.
const documentSeparator = "\n\n---\n\n"

// ellipsis marks content cut by the balanced strategy.
const ellipsis = "..."

// balancedMaxDocuments caps how many documents the balanced strategy
// divides the budget across.
const balancedMaxDocuments = 5

// ContextAssembler converts a ranked result list into a single bounded
// text block suitable for inclusion in a generation prompt.
type ContextAssembler struct {
	maxTokens     int
	charsPerToken float64
	strategy      domain.ContextStrategy
}

// NewContextAssembler creates an assembler with the given budget policy.
// An unknown strategy falls back to top_scores.
func NewContextAssembler(cfg domain.ContextSettings) *ContextAssembler {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.CharsPerToken <= 0 {
		cfg.CharsPerToken = 4.0
	}
	if !cfg.Strategy.IsValid() {
		if cfg.Strategy != "" {
			logger.Warn("Unknown context strategy %q, falling back to %s", cfg.Strategy, domain.StrategyTopScores)
		}
		cfg.Strategy = domain.StrategyTopScores
	}
	return &ContextAssembler{
		maxTokens:     cfg.MaxTokens,
		charsPerToken: cfg.CharsPerToken,
		strategy:      cfg.Strategy,
	}
}

// MaxChars returns the character budget implied by the token budget.
func (a *ContextAssembler) MaxChars() int {
	return int(float64(a.maxTokens) * a.charsPerToken)
}

// EstimateTokens estimates the token count of a text using the
// chars-per-token heuristic.
func (a *ContextAssembler) EstimateTokens(text string) int {
	return int(float64(len(text)) / a.charsPerToken)
}

// Assemble renders the ranked documents into one context block. When the
// naive concatenation exceeds the budget the configured strategy reduces
// it; documents are dropped whole except under the balanced strategy,
// which truncates content instead.
func (a *ContextAssembler) Assemble(ranked []domain.RankedResult) domain.ContextBundle {
	if len(ranked) == 0 {
		logger.Debug("Context assembly: no documents")
		return domain.ContextBundle{Strategy: a.strategy}
	}

	logger.Section("Context Assembly")

	full := renderDocuments(ranked)
	maxChars := a.MaxChars()

	if len(full) <= maxChars {
		logger.Debug("Context fits budget: %d <= %d chars", len(full), maxChars)
		return a.bundle(full, len(ranked), 0, false, 0)
	}

	logger.Info("Context exceeds budget (%d > %d chars), applying %s", len(full), maxChars, a.strategy)

	var text string
	var kept int
	switch a.strategy {
	case domain.StrategyBalanced:
		text, kept = a.reduceBalanced(ranked)
	case domain.StrategyFirstN:
		// Same greedy mechanics as top_scores; the input is taken in its
		// original retrieval order rather than score order.
		text, kept = a.reduceGreedy(ranked)
	default:
		text, kept = a.reduceGreedy(ranked)
	}

	reduction := float64(len(full)-len(text)) / float64(len(full)) * 100
	logger.Info("Context reduced: %d -> %d chars (%.1f%%), kept %d/%d documents",
		len(full), len(text), reduction, kept, len(ranked))

	return a.bundle(text, kept, len(ranked)-kept, true, reduction)
}

func (a *ContextAssembler) bundle(text string, kept, removed int, truncated bool, reduction float64) domain.ContextBundle {
	return domain.ContextBundle{
		Text:             text,
		DocumentCount:    kept,
		CharCount:        len(text),
		EstimatedTokens:  a.EstimateTokens(text),
		Truncated:        truncated,
		DocumentsRemoved: removed,
		ReductionPercent: reduction,
		Strategy:         a.strategy,
	}
}

// reduceGreedy keeps whole documents in input order until the next one
// would exceed the budget.
func (a *ContextAssembler) reduceGreedy(ranked []domain.RankedResult) (string, int) {
	maxChars := a.MaxChars()
	sepLen := len(documentSeparator)

	var parts []string
	var current int

	for _, result := range ranked {
		docText := renderDocument(len(parts)+1, result.Document.ID, result.Score, result.Document.Content)

		additional := len(docText)
		if len(parts) > 0 {
			additional += sepLen
		}
		if current+additional > maxChars {
			break
		}

		parts = append(parts, docText)
		current += additional
	}

	return strings.Join(parts, documentSeparator), len(parts)
}

// reduceBalanced divides the budget evenly across up to five top documents,
// truncating each document's content (not its header) to fit.
func (a *ContextAssembler) reduceBalanced(ranked []domain.RankedResult) (string, int) {
	count := len(ranked)
	if count > balancedMaxDocuments {
		count = balancedMaxDocuments
	}
	maxChars := a.MaxChars()
	perDoc := maxChars / count
	sepLen := len(documentSeparator)

	parts := make([]string, 0, count)
	var current int
	for i, result := range ranked[:count] {
		header := renderHeader(i+1, result.Document.ID, result.Score)

		available := perDoc - len(header) - 1
		if i > 0 {
			available -= sepLen
		}

		content := result.Document.Content
		if len(content) > available {
			cut := available - len(ellipsis)
			if cut < 0 {
				cut = 0
			}
			content = content[:cut] + ellipsis
		}

		// A budget smaller than the headers themselves must still be
		// honoured: stop before the bundle overruns it.
		part := header + "\n" + content
		additional := len(part)
		if len(parts) > 0 {
			additional += sepLen
		}
		if current+additional > maxChars {
			break
		}

		parts = append(parts, part)
		current += additional
	}

	return strings.Join(parts, documentSeparator), len(parts)
}

// renderDocuments renders the full, unreduced context block.
func renderDocuments(ranked []domain.RankedResult) string {
	parts := make([]string, len(ranked))
	for i, result := range ranked {
		parts[i] = renderDocument(i+1, result.Document.ID, result.Score, result.Document.Content)
	}
	return strings.Join(parts, documentSeparator)
}

func renderDocument(number int, id string, score float64, content string) string {
	return renderHeader(number, id, score) + "\n" + content
}

func renderHeader(number int, id string, score float64) string {
	return fmt.Sprintf("[DOCUMENT %d]\nID: %s\nRelevance: %.3f", number, id, score)
}
