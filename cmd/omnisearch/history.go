package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/omnisearch/internal/config"
	"github.com/nao1215/omnisearch/internal/history"
	"github.com/nao1215/omnisearch/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [query]",
		Short: "Show past resolutions",
		Long: `History lists resolutions recorded by previous query runs.

Without arguments it shows the most recent resolutions. With a query
argument it shows every recorded resolution of exactly that query.

Examples:
  # Show the 20 most recent resolutions
  omnisearch history

  # Show the 50 most recent resolutions
  omnisearch history -n 50

  # Show past resolutions of one query
  omnisearch history "prime minister of india"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of entries to show")
	cmd.Flags().BoolP("json", "j", false, "Output wire JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := history.Open(config.XDGDataDir(), history.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("no history recorded yet: %w", err)
	}
	defer db.Close()

	var entries []history.Entry
	if len(args) == 1 {
		entries, err = db.ByQuery(cmd.Context(), args[0])
	} else {
		entries, err = db.Recent(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history entries found.")
		return nil
	}

	var writer report.Writer
	if asJSON {
		writer = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	} else {
		writer = report.NewSimpleWriter(cmd.OutOrStdout())
	}

	for _, entry := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] ", entry.Resolution.ResolvedAt.Format("2006-01-02 15:04:05"))
		if _, err := writer.Write(&entry.Resolution); err != nil {
			return err
		}
	}

	return nil
}
