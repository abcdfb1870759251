// Command contexta is a retrieval-augmented question answering CLI.
// It wires the file-backed adapters to the core services and hands
// control to the cobra command tree.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/contexta-ai/contexta/internal/adapters/driven/ai"
	"github.com/contexta-ai/contexta/internal/adapters/driven/config/file"
	"github.com/contexta-ai/contexta/internal/adapters/driven/storage/sqlite"
	"github.com/contexta-ai/contexta/internal/adapters/driving/cli"
	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/core/ports/driven"
	"github.com/contexta-ai/contexta/internal/core/services"
	"github.com/contexta-ai/contexta/internal/logger"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)

	shutdown, err := wireServices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "contexta: %v\n", err)
		os.Exit(1)
	}
	defer shutdown()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// wireServices builds the service graph and injects it into the CLI.
// Unconfigured providers degrade gracefully: commands that need the
// missing service report it instead of the whole binary failing.
func wireServices() (func(), error) {
	var closers []func()
	shutdown := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return shutdown, fmt.Errorf("opening config store: %w", err)
	}

	settings := loadSettings(configStore)

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return shutdown, fmt.Errorf("opening prompt store: %w", err)
	}
	if err := promptStore.Watch(); err != nil {
		logger.Warn("Prompt hot reload unavailable: %v", err)
	}
	closers = append(closers, func() { promptStore.Close() }) //nolint:errcheck

	cache, err := sqlite.NewStore("")
	if err != nil {
		return shutdown, fmt.Errorf("opening embedding cache: %w", err)
	}
	closers = append(closers, func() { cache.Close() }) //nolint:errcheck

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("Embedding service unavailable: %v", err)
	}
	if embedder != nil {
		closers = append(closers, func() { embedder.Close() }) //nolint:errcheck
	}

	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("LLM service unavailable: %v", err)
	}
	if llm != nil {
		closers = append(closers, func() { llm.Close() }) //nolint:errcheck
	}

	var retrieval *services.RetrievalOrchestrator
	if embedder != nil {
		store := services.NewVectorStore(cache)
		semantic := services.NewSemanticRanker(embedder)
		lexical := services.NewLexicalRanker()

		retrieval, err = services.NewRetrievalOrchestrator(store, semantic, lexical, settings.Search.Weights)
		if err != nil {
			return shutdown, fmt.Errorf("building retrieval: %w", err)
		}
	}

	var pipeline *services.QuestionPipeline
	if llm != nil && retrieval != nil {
		assembler := services.NewContextAssembler(settings.Context)
		composer := services.NewPromptComposer()
		composer.SetPromptStore(promptStore)
		gateway := services.NewGenerationGateway(llm, services.NewUsageStats(), settings.Generation)

		pipeline = services.NewQuestionPipeline(retrieval, assembler, composer, gateway, settings.Search)
	}

	// Typed nils must not leak into the interface globals.
	switch {
	case pipeline != nil:
		cli.SetServices(pipeline, retrieval)
	case retrieval != nil:
		cli.SetServices(nil, retrieval)
	default:
		cli.SetServices(nil, nil)
	}

	return shutdown, nil
}

// loadSettings overlays config file values onto the defaults. API keys
// fall back to the conventional environment variables when the config
// file does not set them.
func loadSettings(store driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()

	s.Search.TopK = getInt(store, "search.top_k", s.Search.TopK)
	s.Search.Hybrid = getBool(store, "search.hybrid", s.Search.Hybrid)
	s.Search.Weights.Semantic = getFloat(store, "search.semantic_weight", s.Search.Weights.Semantic)
	s.Search.Weights.Lexical = getFloat(store, "search.lexical_weight", s.Search.Weights.Lexical)

	s.Context.MaxTokens = getInt(store, "context.max_tokens", s.Context.MaxTokens)
	s.Context.CharsPerToken = getFloat(store, "context.chars_per_token", s.Context.CharsPerToken)
	if v := store.GetString("context.strategy"); v != "" {
		s.Context.Strategy = domain.ContextStrategy(v)
	}

	s.Generation.MaxTokens = getInt(store, "generation.max_tokens", s.Generation.MaxTokens)
	s.Generation.Temperature = getFloat(store, "generation.temperature", s.Generation.Temperature)
	s.Generation.RequestsPerMinute = getInt(store, "generation.requests_per_minute", s.Generation.RequestsPerMinute)

	if v := store.GetString("embedding.provider"); v != "" {
		s.Embedding.Provider = domain.AIProvider(v)
	}
	if v := store.GetString("embedding.model"); v != "" {
		s.Embedding.Model = v
	}
	s.Embedding.BaseURL = store.GetString("embedding.base_url")
	s.Embedding.APIKey = store.GetString("embedding.api_key")

	if v := store.GetString("llm.provider"); v != "" {
		s.LLM.Provider = domain.AIProvider(v)
	}
	if v := store.GetString("llm.model"); v != "" {
		s.LLM.Model = v
	}
	s.LLM.BaseURL = store.GetString("llm.base_url")
	s.LLM.APIKey = store.GetString("llm.api_key")
	if v := getInt(store, "llm.timeout_seconds", 0); v > 0 {
		s.LLM.Timeout = time.Duration(v) * time.Second
	}

	if s.Embedding.APIKey == "" {
		s.Embedding.APIKey = envKeyFor(s.Embedding.Provider)
	}
	if s.LLM.APIKey == "" {
		s.LLM.APIKey = envKeyFor(s.LLM.Provider)
	}

	return s
}

func envKeyFor(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case domain.AIProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

func getInt(store driven.ConfigStore, key string, def int) int {
	if _, ok := store.Get(key); ok {
		return store.GetInt(key)
	}
	return def
}

func getFloat(store driven.ConfigStore, key string, def float64) float64 {
	if _, ok := store.Get(key); ok {
		return store.GetFloat(key)
	}
	return def
}

func getBool(store driven.ConfigStore, key string, def bool) bool {
	if _, ok := store.Get(key); ok {
		return store.GetBool(key)
	}
	return def
}
