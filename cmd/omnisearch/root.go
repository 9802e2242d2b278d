package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for omnisearch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "omnisearch",
		Short: "Answer queries from live web sources",
		Long: `Omnisearch resolves natural-language queries against live web sources.

For each query it dispatches a web search, fetches the top-ranked pages
concurrently, and returns either a precise answer (when an extraction
rule recognizes the query intent) or a short summary of each fetched
source. When the search yields nothing, it falls back to an encyclopedia
lookup.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
