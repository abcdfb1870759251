package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check service health",
	Long: `Runs a health probe against the question answering pipeline: checks
that the corpus is loaded and that a trivial question validates. Exits
non-zero when the service is unhealthy.`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if questionService == nil {
		return errors.New("question service not configured")
	}

	report := questionService.Health(context.Background())

	cmd.Printf("Status:            %s\n", renderStatus(report.Status))
	cmd.Printf("Validation probe:  %v\n", report.ValidationTestPassed)
	cmd.Printf("Documents loaded:  %d\n", report.DocumentsLoaded)
	cmd.Printf("Requests served:   %d\n", report.Usage.TotalRequests)

	if report.Status != "healthy" {
		return fmt.Errorf("service is %s", report.Status)
	}

	return nil
}
