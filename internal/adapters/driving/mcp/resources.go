package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/contexta-ai/contexta/internal/core/ports/driving"
)

const (
	// uriScheme is the custom URI scheme for Contexta resources.
	uriScheme = "contexta://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the loaded corpus.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus",
		Name:        "corpus",
		Description: "Statistics about the loaded embedding corpus",
		MIMEType:    "application/json",
	}, s.handleCorpusResource)

	// Static resource reporting service health.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "health",
		Name:        "health",
		Description: "Health report for the question answering service",
		MIMEType:    "application/json",
	}, s.handleHealthResource)

	// Static resource with running usage counters.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "usage",
		Name:        "usage",
		Description: "Generation usage statistics (requests, tokens, cost)",
		MIMEType:    "application/json",
	}, s.handleUsageResource)
}

// handleCorpusResource returns statistics about the loaded corpus.
func (s *Server) handleCorpusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Retrieval == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	stats := s.ports.Retrieval.Stats()

	type corpusInfo struct {
		Count     int      `json:"count"`
		Dimension int      `json:"dimension"`
		SampleIDs []string `json:"sample_ids,omitempty"`
		Models    []string `json:"models,omitempty"`
	}

	info := corpusInfo{
		Count:     stats.Count,
		Dimension: stats.Dimension,
		SampleIDs: stats.SampleIDs,
		Models:    stats.Models,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling corpus stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleHealthResource returns the question service health report.
func (s *Server) handleHealthResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	report := s.ports.Question.Health(ctx)

	type healthInfo struct {
		Status               string  `json:"status"`
		ValidationTestPassed bool    `json:"validation_test_passed"`
		DocumentsLoaded      int     `json:"documents_loaded"`
		TotalRequests        int64   `json:"total_requests"`
		SuccessRate          float64 `json:"success_rate"`
	}

	info := healthInfo{
		Status:               report.Status,
		ValidationTestPassed: report.ValidationTestPassed,
		DocumentsLoaded:      report.DocumentsLoaded,
		TotalRequests:        report.Usage.TotalRequests,
		SuccessRate:          report.Usage.SuccessRate(),
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling health report: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleUsageResource returns running usage counters when the question
// service tracks them.
func (s *Server) handleUsageResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	provider, ok := s.ports.Question.(driving.StatisticsProvider)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	usage := provider.Statistics()

	type usageInfo struct {
		TotalRequests      int64   `json:"total_requests"`
		SuccessfulRequests int64   `json:"successful_requests"`
		FailedRequests     int64   `json:"failed_requests"`
		TotalTokensUsed    int64   `json:"total_tokens_used"`
		TotalCostEstimate  float64 `json:"total_cost_estimate"`
		SuccessRate        float64 `json:"success_rate"`
	}

	info := usageInfo{
		TotalRequests:      usage.TotalRequests,
		SuccessfulRequests: usage.SuccessfulRequests,
		FailedRequests:     usage.FailedRequests,
		TotalTokensUsed:    usage.TotalTokensUsed,
		TotalCostEstimate:  usage.TotalCostEstimate,
		SuccessRate:        usage.SuccessRate(),
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling usage stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
