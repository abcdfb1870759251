package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleCorpusResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns corpus stats", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{
			stats: domain.CacheStats{
				Count:     3,
				Dimension: 768,
				SampleIDs: []string{"doc-1"},
				Models:    []string{"nomic-embed-text"},
			},
		}

		server, err := NewServer(&Ports{
			Question:  &mockQuestionService{},
			Retrieval: mockRetrieval,
		})
		require.NoError(t, err)

		result, err := server.handleCorpusResource(ctx, makeReadResourceRequest(uriScheme+"corpus"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"count": 3`)
		assert.Contains(t, result.Contents[0].Text, `"dimension": 768`)
		assert.Contains(t, result.Contents[0].Text, "nomic-embed-text")
	})

	t.Run("no retrieval service returns empty object", func(t *testing.T) {
		server, err := NewServer(&Ports{Question: &mockQuestionService{}})
		require.NoError(t, err)

		result, err := server.handleCorpusResource(ctx, makeReadResourceRequest(uriScheme+"corpus"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "{}", result.Contents[0].Text)
	})
}

func TestServer_handleHealthResource(t *testing.T) {
	ctx := context.Background()

	mockQuestion := &mockQuestionService{
		health: domain.HealthReport{
			Status:               "healthy",
			ValidationTestPassed: true,
			DocumentsLoaded:      5,
			Usage:                domain.UsageReport{TotalRequests: 4, SuccessfulRequests: 4},
		},
	}

	server, err := NewServer(&Ports{Question: mockQuestion})
	require.NoError(t, err)

	result, err := server.handleHealthResource(ctx, makeReadResourceRequest(uriScheme+"health"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, `"status": "healthy"`)
	assert.Contains(t, result.Contents[0].Text, `"documents_loaded": 5`)
	assert.Contains(t, result.Contents[0].Text, `"success_rate": 1`)
}

func TestServer_handleUsageResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns usage counters", func(t *testing.T) {
		mockQuestion := &mockStatsQuestionService{
			usage: domain.UsageReport{
				TotalRequests:      10,
				SuccessfulRequests: 9,
				FailedRequests:     1,
				TotalTokensUsed:    2500,
				TotalCostEstimate:  0.05,
			},
		}

		server, err := NewServer(&Ports{Question: mockQuestion})
		require.NoError(t, err)

		result, err := server.handleUsageResource(ctx, makeReadResourceRequest(uriScheme+"usage"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"total_requests": 10`)
		assert.Contains(t, result.Contents[0].Text, `"total_tokens_used": 2500`)
		assert.Contains(t, result.Contents[0].Text, `"success_rate": 0.9`)
	})

	t.Run("service without statistics reports not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Question: &mockQuestionService{}})
		require.NoError(t, err)

		_, err = server.handleUsageResource(ctx, makeReadResourceRequest(uriScheme+"usage"))

		require.Error(t, err)
	})
}
