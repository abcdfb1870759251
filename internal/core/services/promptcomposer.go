package services

import (
	"strconv"
	"strings"
	"sync"

	"github.com/contexta-ai/contexta/internal/core/domain"
	"github.com/contexta-ai/contexta/internal/core/ports/driven"
	"github.com/contexta-ai/contexta/internal/logger"
)

// Ensure PromptComposer can accept custom prompts.
var _ driven.PromptStoreAware = (*PromptComposer)(nil)

// sectionSeparator divides the major sections of the user message.
var sectionSeparator = strings.Repeat("=", 50)

// promptCharsPerToken is the approximate character-to-token ratio used
// for prompt budget validation. The estimate is deliberately rough.
const promptCharsPerToken = 4

// defaultComposerPrompts are the embedded templates used when no prompt
// store is configured or a named prompt cannot be loaded.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultComposerPrompts = map[string]string{
	driven.PromptQASystem: `You are an AI assistant specialised in answering questions based on the documents provided.

Your responsibilities:
1. Carefully analyse the provided context
2. Answer only from the information available in the documents
3. Be accurate, clear and concise in your answers
4. State clearly when the information is not available in the context
5. Cite the relevant documents where appropriate

Important principles:
- Do NOT invent information that is not in the documents
- If the answer is not in the context, say so clearly
- Keep a professional and helpful tone
- Structure your answer in a clear and organised way`,

	driven.PromptFollowupSystem: `You are an AI assistant specialised in answering questions based on the documents provided.

Your responsibilities:
1. Carefully analyse the provided context
2. Answer only from the information available in the documents
3. Be accurate, clear and concise in your answers
4. State clearly when the information is not available in the context
5. Cite the relevant documents where appropriate

Important principles:
- Do NOT invent information that is not in the documents
- If the answer is not in the context, say so clearly
- Keep a professional and helpful tone
- Structure your answer in a clear and organised way

CONVERSATION CONTEXT:
This is a follow-up question in an existing conversation. Stay coherent with the previous answer while providing new information based on the updated context.`,

	driven.PromptUserFooter: `Please answer the question based only on the context provided above. If the information is not available in the documents, state this clearly.`,
}

// PromptComposer builds the system/user message pair sent to the
// generative model, embedding the assembled context and the question.
type PromptComposer struct {
	mu    sync.RWMutex
	store driven.PromptStore
}

// NewPromptComposer creates a composer using the embedded default prompts.
func NewPromptComposer() *PromptComposer {
	return &PromptComposer{}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the composer uses hardcoded defaults.
func (c *PromptComposer) SetPromptStore(store driven.PromptStore) {
	c.mu.Lock()
	c.store = store
	c.mu.Unlock()
}

// Build composes the prompt pair for a question over the given context.
// When history contains at least one prior turn, a follow-up template is
// used that repeats the immediately preceding Q/A pair for coherence.
func (c *PromptComposer) Build(question string, context domain.ContextBundle, history []domain.QATurn) domain.Prompt {
	logger.Debug("Building prompt: question %d chars, context %d chars, %d history turns",
		len(question), len(context.Text), len(history))

	if len(history) > 0 {
		return c.buildFollowup(question, context, history[len(history)-1])
	}

	prompt := domain.Prompt{
		System: c.loadPrompt(driven.PromptQASystem),
		User:   c.buildUserMessage(question, context),
	}
	logger.Debug("Prompt built: system %d chars, user %d chars", len(prompt.System), len(prompt.User))
	return prompt
}

// Validate checks the prompt against a token budget using the same
// chars-per-token heuristic as context assembly. The estimate is
// approximate and not a committed contract with any provider.
func (c *PromptComposer) Validate(prompt domain.Prompt, maxTokens int) domain.PromptCheck {
	totalChars := prompt.TotalChars()
	estimated := totalChars / promptCharsPerToken

	remaining := maxTokens - estimated
	if remaining < 0 {
		remaining = 0
	}

	check := domain.PromptCheck{
		Valid:           estimated <= maxTokens,
		TotalChars:      totalChars,
		EstimatedTokens: estimated,
		MaxTokens:       maxTokens,
		TokensRemaining: remaining,
	}

	if check.Valid {
		logger.Debug("Prompt within budget: %d/%d estimated tokens", estimated, maxTokens)
	} else {
		logger.Warn("Prompt exceeds budget: %d/%d estimated tokens", estimated, maxTokens)
	}
	return check
}

// buildUserMessage assembles the standard user message: a context header,
// the context block, a separator, the question and closing instructions.
func (c *PromptComposer) buildUserMessage(question string, context domain.ContextBundle) string {
	header := "The following documents contain information relevant to your question:"
	if context.DocumentCount > 0 {
		header += "\nTotal documents: " + strconv.Itoa(context.DocumentCount)
	}

	parts := []string{
		header,
		"CONTEXT:",
		context.Text,
		sectionSeparator,
		"QUESTION:",
		question,
		c.loadPrompt(driven.PromptUserFooter),
	}
	return strings.Join(parts, "\n\n")
}

// buildFollowup composes a follow-up prompt that carries the previous turn.
func (c *PromptComposer) buildFollowup(question string, context domain.ContextBundle, previous domain.QATurn) domain.Prompt {
	parts := []string{
		"CONVERSATION HISTORY:",
		"Previous question: " + previous.Question + "\nPrevious answer: " + previous.Answer,
		sectionSeparator,
		"UPDATED CONTEXT:",
		context.Text,
		sectionSeparator,
		"NEW QUESTION:",
		question,
		"Please answer the new question taking the previous conversation into account and based on the updated context provided.",
	}

	prompt := domain.Prompt{
		System: c.loadPrompt(driven.PromptFollowupSystem),
		User:   strings.Join(parts, "\n\n"),
	}
	logger.Debug("Follow-up prompt built: system %d chars, user %d chars", len(prompt.System), len(prompt.User))
	return prompt
}

// loadPrompt fetches a named prompt from the configured store, falling
// back to the embedded default on any failure.
func (c *PromptComposer) loadPrompt(name string) string {
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()

	if store != nil {
		if prompt, err := store.Load(name); err == nil && prompt != "" {
			return prompt
		}
		logger.Debug("Prompt %q unavailable from store, using embedded default", name)
	}
	return defaultComposerPrompts[name]
}
