package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generative provider configuration.
type LLMSettings struct {
	// Provider is the generative service provider.
	Provider AIProvider

	// Model is the generative model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Timeout bounds each generation call.
	Timeout time.Duration
}

// IsConfigured returns true if the generative provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SearchSettings holds retrieval behaviour configuration.
type SearchSettings struct {
	// TopK is the number of documents retrieved per question.
	TopK int

	// Hybrid enables combined semantic + lexical ranking.
	Hybrid bool

	// Weights are the score fusion weights.
	Weights FusionWeights
}

// ContextSettings holds context assembly configuration.
type ContextSettings struct {
	// MaxTokens is the context token budget.
	MaxTokens int

	// CharsPerToken is the token estimation ratio.
	CharsPerToken float64

	// Strategy selects the over-budget reduction strategy.
	Strategy ContextStrategy
}

// GenerationSettings holds generation behaviour configuration.
type GenerationSettings struct {
	// MaxTokens is the completion token limit.
	MaxTokens int

	// Temperature controls sampling randomness.
	Temperature float64

	// RequestsPerMinute caps the generation call rate. Zero disables
	// rate limiting.
	RequestsPerMinute int
}

// EmbeddingDimensions returns the vector dimensions for known embedding models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// Settings aggregates all service configuration.
type Settings struct {
	Search     SearchSettings
	Context    ContextSettings
	Generation GenerationSettings
	Embedding  EmbeddingSettings
	LLM        LLMSettings
}

// DefaultSettings returns the configuration used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		Search: SearchSettings{
			TopK:    5,
			Hybrid:  true,
			Weights: FusionWeights{Semantic: 0.7, Lexical: 0.3},
		},
		Context: ContextSettings{
			MaxTokens:     4000,
			CharsPerToken: 4.0,
			Strategy:      StrategyTopScores,
		},
		Generation: GenerationSettings{
			MaxTokens:   1000,
			Temperature: 0.1,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    "gpt-4o-mini",
			Timeout:  30 * time.Second,
		},
	}
}
