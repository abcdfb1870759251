package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Show corpus statistics",
	Long:  `Shows statistics about the loaded embedding corpus.`,
	RunE:  runCorpus,
}

func init() {
	rootCmd.AddCommand(corpusCmd)
}

func runCorpus(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	if !retrievalService.Ready() {
		if err := retrievalService.Initialize(context.Background()); err != nil {
			return fmt.Errorf("initialising retrieval: %w", err)
		}
	}

	stats := retrievalService.Stats()

	cmd.Printf("Documents: %d\n", stats.Count)
	cmd.Printf("Dimension: %d\n", stats.Dimension)
	if len(stats.Models) > 0 {
		cmd.Printf("Models:    %s\n", strings.Join(stats.Models, ", "))
	}
	if len(stats.SampleIDs) > 0 {
		cmd.Printf("Samples:   %s\n", strings.Join(stats.SampleIDs, ", "))
	}

	return nil
}
