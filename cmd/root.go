package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tracerag",
	Short: "Document ingestion and retrieval-augmented question answering",
	Long: `tracerag collects documents from files, URLs, GitHub, and Jira,
chunks them with configurable strategies, and serves search and chat
over the indexed corpus.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
