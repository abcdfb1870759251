package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string      `json:"question" jsonschema:"the question to answer from the indexed corpus"`
	History  []TurnInput `json:"history,omitempty" jsonschema:"prior question/answer turns for follow-up questions"`
}

// TurnInput is a single prior conversation turn.
type TurnInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer           string   `json:"answer"`
	Status           string   `json:"status"`
	Confidence       float64  `json:"confidence"`
	Sources          []string `json:"sources,omitempty"`
	Attempts         int      `json:"attempts"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the search query to find documents"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	Hybrid *bool  `json:"hybrid,omitempty" jsonschema:"combine semantic and lexical ranking (default true)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID    string  `json:"document_id"`
	Score         float64 `json:"score"`
	SemanticScore float64 `json:"semantic_score"`
	LexicalScore  float64 `json:"lexical_score"`
	Content       string  `json:"content,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the indexed document corpus",
	}, s.handleAsk)

	if s.ports.Retrieval != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search",
			Description: "Search the indexed document corpus without generating an answer",
		}, s.handleSearch)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	history := make([]domain.QATurn, len(input.History))
	for i, turn := range input.History {
		history[i] = domain.QATurn{Question: turn.Question, Answer: turn.Answer}
	}

	var result domain.AnswerResult
	if len(history) > 0 {
		result = s.ports.Question.AnswerWithHistory(ctx, input.Question, history)
	} else {
		result = s.ports.Question.Answer(ctx, input.Question)
	}

	output := AskOutput{
		Answer:           result.Answer,
		Status:           string(result.Status),
		Confidence:       result.Confidence,
		Sources:          result.SourceDocumentIDs,
		Attempts:         result.Attempts,
		ProcessingTimeMs: result.ProcessingTimeMs,
	}

	return nil, output, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	hybrid := true
	if input.Hybrid != nil {
		hybrid = *input.Hybrid
	}

	opts := domain.SearchOptions{TopK: limit, Hybrid: hybrid}
	results, err := s.ports.Retrieval.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID:    results[i].Document.ID,
			Score:         results[i].Score,
			SemanticScore: results[i].Detail.SemanticScore,
			LexicalScore:  results[i].Detail.LexicalScore,
			Content:       results[i].Document.Content,
		}
	}

	return nil, output, nil
}
