package services

import (
	"math"
	"sync/atomic"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

// Approximate gpt-4o-mini pricing used for the running cost estimate.
const (
	costPerThousandInputTokens  = 0.00015
	costPerThousandOutputTokens = 0.0006
)

// UsageStats aggregates generation usage counters for the lifetime of the
// process. All methods are safe for concurrent use; the counters are only
// cleared by an explicit Reset.
//
// The aggregator is injected rather than owned by a single gateway so that
// several consumers (CLI, MCP server) observe the same totals.
type UsageStats struct {
	totalRequests      atomic.Int64
	successfulRequests atomic.Int64
	failedRequests     atomic.Int64
	totalTokensUsed    atomic.Int64
	costBits           atomic.Uint64
}

// NewUsageStats creates a zeroed usage aggregator.
func NewUsageStats() *UsageStats {
	return &UsageStats{}
}

// beginRequest counts a generation attempt before its outcome is known.
func (s *UsageStats) beginRequest() {
	s.totalRequests.Add(1)
}

// recordSuccess records token usage and the derived cost estimate for a
// completed generation.
func (s *UsageStats) recordSuccess(usage domain.TokenUsage) {
	s.successfulRequests.Add(1)
	s.totalTokensUsed.Add(int64(usage.TotalTokens))

	inputCost := float64(usage.PromptTokens) / 1000 * costPerThousandInputTokens
	outputCost := float64(usage.CompletionTokens) / 1000 * costPerThousandOutputTokens
	s.addCost(inputCost + outputCost)
}

// recordFailure counts a generation that did not produce an answer.
func (s *UsageStats) recordFailure() {
	s.failedRequests.Add(1)
}

// addCost atomically adds a float64 delta to the running cost estimate.
func (s *UsageStats) addCost(delta float64) {
	for {
		old := s.costBits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if s.costBits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Report returns a snapshot of the current counters.
func (s *UsageStats) Report() domain.UsageReport {
	return domain.UsageReport{
		TotalRequests:      s.totalRequests.Load(),
		SuccessfulRequests: s.successfulRequests.Load(),
		FailedRequests:     s.failedRequests.Load(),
		TotalTokensUsed:    s.totalTokensUsed.Load(),
		TotalCostEstimate:  math.Float64frombits(s.costBits.Load()),
	}
}

// Reset clears all counters back to zero.
func (s *UsageStats) Reset() {
	s.totalRequests.Store(0)
	s.successfulRequests.Store(0)
	s.failedRequests.Store(0)
	s.totalTokensUsed.Store(0)
	s.costBits.Store(0)
}
