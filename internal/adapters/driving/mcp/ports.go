package mcp

import (
	"github.com/contexta-ai/contexta/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Question answers natural-language questions over the corpus.
	Question driving.QuestionService

	// Retrieval exposes raw document retrieval.
	Retrieval driving.RetrievalService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Question == nil {
		return ErrMissingQuestionService
	}
	// Retrieval is optional; the search tool is only registered when set.
	return nil
}
