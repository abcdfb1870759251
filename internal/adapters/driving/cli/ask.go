package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

var (
	askJSON    bool
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed corpus",
	Long: `Answers a natural-language question using retrieval-augmented generation.
The most relevant documents are retrieved from the embedding corpus and
passed to the configured LLM as grounding context.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full result as JSON")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "show source document ids")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if questionService == nil {
		return errors.New("question service not configured")
	}

	ctx := context.Background()

	if retrievalService != nil && !retrievalService.Ready() {
		if err := retrievalService.Initialize(ctx); err != nil {
			return fmt.Errorf("initialising retrieval: %w", err)
		}
	}

	result := questionService.Answer(ctx, question)

	if askJSON {
		return outputAskJSON(cmd, result)
	}

	return outputAskText(cmd, result)
}

func outputAskJSON(cmd *cobra.Command, result domain.AnswerResult) error {
	out := struct {
		ID               string   `json:"id"`
		Question         string   `json:"question"`
		Answer           string   `json:"answer"`
		Status           string   `json:"status"`
		Confidence       float64  `json:"confidence"`
		Sources          []string `json:"sources,omitempty"`
		Attempts         int      `json:"attempts"`
		ProcessingTimeMs int64    `json:"processing_time_ms"`
	}{
		ID:               result.ID,
		Question:         result.Question,
		Answer:           result.Answer,
		Status:           string(result.Status),
		Confidence:       result.Confidence,
		Sources:          result.SourceDocumentIDs,
		Attempts:         result.Attempts,
		ProcessingTimeMs: result.ProcessingTimeMs,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, result domain.AnswerResult) error {
	cmd.Println(result.Answer)

	if result.Status == domain.StatusSuccess {
		cmd.Println()
		cmd.Println(mutedStyle.Render(fmt.Sprintf("Confidence: %.2f | Attempts: %d | Time: %dms",
			result.Confidence, result.Attempts, result.ProcessingTimeMs)))
		if askSources && len(result.SourceDocumentIDs) > 0 {
			cmd.Println(mutedStyle.Render("Sources: " + strings.Join(result.SourceDocumentIDs, ", ")))
		}
	}

	return nil
}
