package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contexta-ai/contexta/internal/core/domain"
)

var (
	searchLimit    int
	searchJSON     bool
	searchSemantic bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed corpus",
	Long: `Performs hybrid search across the embedding corpus without generating
an answer. Combines semantic (vector) and lexical (TF-IDF) ranking;
use --semantic-only to disable the lexical component.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchSemantic, "semantic-only", false, "rank by semantic similarity only")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()

	if !retrievalService.Ready() {
		if err := retrievalService.Initialize(ctx); err != nil {
			return fmt.Errorf("initialising retrieval: %w", err)
		}
	}

	opts := domain.SearchOptions{
		TopK:   searchLimit,
		Hybrid: !searchSemantic,
	}

	results, err := retrievalService.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RankedResult) error {
	type resultOut struct {
		DocumentID    string  `json:"document_id"`
		Score         float64 `json:"score"`
		SemanticScore float64 `json:"semantic_score"`
		LexicalScore  float64 `json:"lexical_score"`
		Content       string  `json:"content"`
	}

	out := make([]resultOut, len(results))
	for i := range results {
		out[i] = resultOut{
			DocumentID:    results[i].Document.ID,
			Score:         results[i].Score,
			SemanticScore: results[i].Detail.SemanticScore,
			LexicalScore:  results[i].Detail.LexicalScore,
			Content:       results[i].Document.Content,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RankedResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println(titleStyle.Render("Results:"))
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, results[i].Document.ID, results[i].Score)
		cmd.Printf("      %s\n", mutedStyle.Render(fmt.Sprintf("semantic %.3f | lexical %.3f",
			results[i].Detail.SemanticScore, results[i].Detail.LexicalScore)))

		snippet := results[i].Document.Content
		if len(snippet) > 120 {
			snippet = snippet[:120] + "..."
		}
		if snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}
