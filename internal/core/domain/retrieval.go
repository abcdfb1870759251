package domain

// FusionWeights holds the linear combination weights for hybrid ranking.
type FusionWeights struct {
	// Semantic is the weight applied to dense-vector similarity.
	Semantic float64

	// Lexical is the weight applied to TF-IDF similarity.
	Lexical float64
}

// weightTolerance is the permitted deviation from a unit weight sum.
const weightTolerance = 1e-3

// Valid returns true if the weights sum to 1.0 within tolerance.
func (w FusionWeights) Valid() bool {
	sum := w.Semantic + w.Lexical
	return sum > 1.0-weightTolerance && sum < 1.0+weightTolerance
}

// ScoreDetail breaks a combined score down into its components.
type ScoreDetail struct {
	// SemanticScore is the rescaled cosine similarity in [0,1].
	SemanticScore float64

	// LexicalScore is the TF-IDF cosine similarity in [0,1].
	LexicalScore float64

	// Weights are the fusion weights used for this query.
	Weights FusionWeights
}

// RankedResult is a single retrieval hit with its combined score.
// Results reference corpus records; they never own them.
type RankedResult struct {
	// Document is the matched record.
	Document DocumentRecord

	// Score is the combined relevance score.
	Score float64

	// Detail explains how Score was computed.
	Detail ScoreDetail
}

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// TopK is the maximum number of results to return.
	TopK int

	// Hybrid enables combined semantic + lexical ranking.
	// When false only semantic similarity is used.
	Hybrid bool
}

// ContextStrategy selects how an over-budget context is reduced.
type ContextStrategy string

// Available context reduction strategies.
const (
	// StrategyTopScores greedily keeps whole documents in rank order.
	StrategyTopScores ContextStrategy = "top_scores"

	// StrategyBalanced splits the budget evenly across the top documents,
	// truncating each document's content to fit.
	StrategyBalanced ContextStrategy = "balanced"

	// StrategyFirstN greedily keeps whole documents in their original
	// input order. Identical mechanics to top_scores; the name documents
	// the intent when the input is not rank-ordered.
	StrategyFirstN ContextStrategy = "first_n"
)

// IsValid returns true if the strategy is recognised.
func (s ContextStrategy) IsValid() bool {
	switch s {
	case StrategyTopScores, StrategyBalanced, StrategyFirstN:
		return true
	default:
		return false
	}
}

// ContextBundle is the assembled grounding context for one query.
type ContextBundle struct {
	// Text is the rendered context block.
	Text string

	// DocumentCount is the number of documents included in Text.
	DocumentCount int

	// CharCount is len(Text).
	CharCount int

	// EstimatedTokens is CharCount divided by the chars-per-token ratio.
	EstimatedTokens int

	// Truncated is true when the budget forced a reduction.
	Truncated bool

	// DocumentsRemoved is the number of candidate documents dropped.
	DocumentsRemoved int

	// ReductionPercent is the relative size reduction when truncated.
	ReductionPercent float64

	// Strategy is the reduction strategy that was applied, if any.
	Strategy ContextStrategy
}

// QATurn is one completed question/answer exchange, used for
// follow-up prompt construction.
type QATurn struct {
	Question string
	Answer   string
}

// Prompt is the system/user instruction pair sent to the model.
type Prompt struct {
	// System carries the grounding role instructions.
	System string

	// User carries the context block and the question.
	User string
}

// TotalChars returns the combined length of both prompt parts.
func (p Prompt) TotalChars() int {
	return len(p.System) + len(p.User)
}

// PromptCheck reports whether a prompt fits a token budget.
type PromptCheck struct {
	// Valid is true when the estimate fits the budget.
	Valid bool

	// TotalChars is the combined prompt length.
	TotalChars int

	// EstimatedTokens is the heuristic token estimate.
	EstimatedTokens int

	// MaxTokens is the budget the prompt was checked against.
	MaxTokens int

	// TokensRemaining is the unused part of the budget, never negative.
	TokensRemaining int
}
