package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/omnisearch/internal/config"
	"github.com/nao1215/omnisearch/internal/engine"
	"github.com/nao1215/omnisearch/internal/extract"
	"github.com/nao1215/omnisearch/internal/fetch"
	"github.com/nao1215/omnisearch/internal/history"
	"github.com/nao1215/omnisearch/internal/log"
	"github.com/nao1215/omnisearch/internal/model"
	"github.com/nao1215/omnisearch/internal/report"
	"github.com/nao1215/omnisearch/internal/search"
)

// NewQueryCmd creates the query command.
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [queries...]",
		Short: "Resolve one or more queries against live web sources",
		Long: `Query resolves natural-language queries against live web sources.

For each query, omnisearch dispatches a web search, fetches the
top-ranked pages concurrently, and returns either:
- a precise answer, when an extraction rule recognizes the query intent
- a short summary of each fetched source otherwise

When the search yields nothing, an encyclopedia lookup is used as a
fallback. Multiple queries are resolved concurrently.

Examples:
  # Resolve a single query
  omnisearch query "prime minister of india"

  # Resolve several queries concurrently
  omnisearch query "capital of france" "golden retriever"

  # Output the wire JSON format
  omnisearch query --json "prime minister of india"

  # Summaries only, no precise-answer extraction
  omnisearch query --mode summary-only "prime minister of india"

  # Use a custom configuration file with extra intent rules
  omnisearch query -c myconfig.yaml "chancellor of germany"

Configuration file (.omnisearch) example:
  defaults:
    mode: fact-seeking
    summarySentences: 3
  intents:
    - name: capital
      keywords: ["capital of"]
      pattern: 'Capital(?:\s+and largest city)?\s+([A-Z][a-z]+)'`,
		Args: cobra.ArbitraryArgs,
		RunE: runQueryCmd,
	}

	// Engine behavior flags
	cmd.Flags().StringP("mode", "m", config.DefaultMode,
		"Engine mode: fact-seeking or summary-only")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().IntP("max-results", "r", config.DefaultMaxResults,
		"Maximum search results requested per query")
	cmd.Flags().IntP("fetch-limit", "f", config.DefaultFetchLimit,
		"Number of top-ranked URLs fetched concurrently per query")
	cmd.Flags().IntP("sentences", "s", config.DefaultSummarySentences,
		"Sentences kept per source summary")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of queries resolved concurrently")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .omnisearch in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output wire JSON (mutually exclusive with --markdown and --html)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json and --html)")
	cmd.Flags().Bool("html", false,
		"Output HTML report (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record resolutions in the history database")

	return cmd
}

// runQueryCmd executes the query command.
func runQueryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewRedactLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runQuery(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
// Precedence: built-in defaults < config file defaults < explicit flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	cfg.ConfigFilePath, _ = cmd.Flags().GetString("config")

	// Load the config file. An explicitly specified path must exist; the
	// implicit search locations may come up empty.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.File = cf
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags override file defaults only when explicitly set.
	var err error
	if cmd.Flags().Changed("mode") {
		if cfg.Mode, err = cmd.Flags().GetString("mode"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-results") {
		if cfg.MaxResults, err = cmd.Flags().GetInt("max-results"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("fetch-limit") {
		if cfg.FetchLimit, err = cmd.Flags().GetInt("fetch-limit"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("sentences") {
		if cfg.SummarySentences, err = cmd.Flags().GetInt("sentences"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	// Report and history flags exist only on the query command; the serve
	// command shares this builder without them.
	if cmd.Flags().Lookup("json") != nil {
		if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Lookup("markdown") != nil {
		if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Lookup("html") != nil {
		if cfg.HTMLReport, err = cmd.Flags().GetBool("html"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Lookup("output") != nil {
		if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Lookup("no-history") != nil {
		noHistory, err := cmd.Flags().GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveHistory = !noHistory
	}
	cfg.HistoryDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Queries = args

	return cfg, nil
}

// buildEngine wires the search provider, knowledge fallback, fetcher, and
// rule table into an Engine.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	mode, err := engine.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	provider := search.NewDuckDuckGo(
		search.WithDuckDuckGoBaseURL(cfg.SearchBaseURL),
		search.WithDuckDuckGoUserAgent(cfg.UserAgent),
		search.WithDuckDuckGoTimeout(cfg.Timeout),
	)

	knowledge := search.NewWikipedia(
		search.WithWikipediaAPIURL(cfg.WikipediaAPIURL),
		search.WithWikipediaUserAgent(cfg.UserAgent),
		search.WithWikipediaTimeout(cfg.Timeout),
	)

	fetcher := fetch.NewFetcher(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	rules, err := buildRules(cfg)
	if err != nil {
		return nil, err
	}

	return engine.New(provider, knowledge, fetcher,
		engine.WithMode(mode),
		engine.WithMaxResults(cfg.MaxResults),
		engine.WithFetchLimit(cfg.FetchLimit),
		engine.WithSummarySentences(cfg.SummarySentences),
		engine.WithRules(rules),
		engine.WithLogger(logger),
	), nil
}

// buildRules builds the rule table: built-in rules first, then any intent
// rules from the config file in file order.
func buildRules(cfg *config.Config) (*extract.Rules, error) {
	rules := extract.DefaultRules()
	if cfg.File == nil {
		return rules, nil
	}

	for _, intent := range cfg.File.Intents {
		// Patterns were validated at load time; compile errors here mean the
		// file changed underneath us.
		re, err := regexp.Compile(intent.Pattern)
		if err != nil {
			return nil, fmt.Errorf("intent rule %q: %w", intent.Name, err)
		}
		rules.Add(extract.KeywordRule(intent.Name, intent.Keywords, re))
	}

	return rules, nil
}

// runQuery resolves the configured queries and writes the report.
func runQuery(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	var db *history.QueryDB
	if cfg.SaveHistory {
		db, err = history.Open(cfg.HistoryDir, history.DefaultOptions())
		if err != nil {
			// History is an audit convenience; a broken database must not
			// block resolution.
			logger.Warn("failed to open history database", "dir", cfg.HistoryDir, "error", err)
		} else {
			defer db.Close()
			logger.Info("history database opened", "dir", cfg.HistoryDir)
		}
	}

	bp := engine.NewBatchProcessor(eng,
		engine.WithConcurrency(cfg.BatchSize),
		engine.WithBatchLogger(logger),
	)

	results, err := bp.ResolveAll(ctx, cfg.Queries)
	if err != nil {
		return err
	}

	if db != nil {
		for _, res := range results {
			if _, err := db.SaveResolution(ctx, res); err != nil {
				logger.Warn("failed to save resolution", "query", res.Query, "error", err)
			}
		}
	}

	return outputResults(cfg, results)
}

// outputResults writes the resolutions in the requested format.
func outputResults(cfg *config.Config, results []*model.Resolution) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	writer := selectWriter(cfg, output)

	if len(results) == 1 {
		_, err := writer.Write(results[0])
		return err
	}
	_, err := writer.WriteBatch(results)
	return err
}

// selectWriter picks the report writer for the configured format.
func selectWriter(cfg *config.Config, output *os.File) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	case cfg.HTMLReport:
		return report.NewHTMLWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
