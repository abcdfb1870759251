// Package cli provides the cobra command tree for the contexta binary.
// Services are injected by the composition root before Execute is called.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/contexta-ai/contexta/internal/core/ports/driving"
	"github.com/contexta-ai/contexta/internal/logger"
)

// version is set by the composition root at startup.
var version = "dev"

// Injected driving ports. Commands check for nil so the tree can be
// exercised without a full wiring (tests, partial configurations).
var (
	questionService  driving.QuestionService
	retrievalService driving.RetrievalService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "contexta",
	Short: "Grounded question answering over a local document corpus",
	Long: `Contexta answers natural-language questions using retrieval-augmented
generation over a locally cached embedding corpus. Retrieval combines
semantic (vector) and lexical (TF-IDF) ranking; answers are generated
by a configurable LLM provider and grounded in the retrieved documents.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects the driving ports used by the commands.
func SetServices(question driving.QuestionService, retrieval driving.RetrievalService) {
	questionService = question
	retrievalService = retrieval
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
