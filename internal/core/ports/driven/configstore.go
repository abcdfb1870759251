package driven

import "github.com/contexta-ai/contexta/internal/core/domain"

// ConfigStore provides persistent key-value configuration storage.
// Keys use dotted lowercase names, e.g. "search.top_k".
type ConfigStore interface {
	// Get retrieves a raw configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetFloat retrieves a floating point configuration value.
	GetFloat(key string) float64

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error
}

// AIConfigValidator validates AI provider configurations by exercising them.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration.
	ValidateEmbedding(settings *domain.EmbeddingSettings) error

	// ValidateLLM validates a generative configuration.
	ValidateLLM(settings *domain.LLMSettings) error
}
