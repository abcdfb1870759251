package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/contexta-ai/contexta/internal/core/ports/driving"
)

var statsReset bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Long: `Shows running usage counters for the generation gateway: request
counts, token usage and the estimated cost. Counters reset when the
process restarts, or explicitly with --reset.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsReset, "reset", false, "zero the counters after printing")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if questionService == nil {
		return errors.New("question service not configured")
	}

	provider, ok := questionService.(driving.StatisticsProvider)
	if !ok {
		return errors.New("question service does not track statistics")
	}

	usage := provider.Statistics()

	cmd.Println("Usage statistics:")
	cmd.Printf("  Requests:     %d total, %d ok, %d failed\n",
		usage.TotalRequests, usage.SuccessfulRequests, usage.FailedRequests)
	cmd.Printf("  Success rate: %.1f%%\n", usage.SuccessRate()*100)
	cmd.Printf("  Tokens used:  %d\n", usage.TotalTokensUsed)
	cmd.Printf("  Est. cost:    $%.4f\n", usage.TotalCostEstimate)

	if statsReset {
		provider.ResetStatistics()
		cmd.Println()
		cmd.Println("Counters reset.")
	}

	return nil
}
