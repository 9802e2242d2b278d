package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Values mirror the behavior of typical interactive web search: short
// per-request timeouts and small result windows keep total latency bounded.
const (
	// DefaultTimeout is the per-request fetch timeout. A single slow host
	// must not stall a batch beyond this bound, so 10 seconds is applied to
	// every individual page fetch.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxResults caps how many candidate URLs the search provider
	// may return for one query.
	DefaultMaxResults = 5

	// DefaultFetchLimit is how many of the top-ranked candidate URLs are
	// fetched concurrently per query.
	DefaultFetchLimit = 3

	// DefaultSummarySentences is the number of sentences kept when
	// summarizing fetched page text.
	DefaultSummarySentences = 5

	// DefaultBatchSize is the number of queries resolved concurrently when
	// multiple queries are given. Each resolution already fans out up to
	// DefaultFetchLimit fetches, so this stays small.
	DefaultBatchSize = 4

	// DefaultUserAgent is a realistic browser identity. Some providers and
	// sites reject requests carrying default library identities.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultMaxBodySize limits how much of a response body is read.
	// 2MB is generous for HTML pages while preventing memory exhaustion.
	DefaultMaxBodySize = 2 * 1024 * 1024 // 2MB

	// DefaultSearchBaseURL is the HTML endpoint of the primary search provider.
	DefaultSearchBaseURL = "https://html.duckduckgo.com"

	// DefaultWikipediaAPIURL is the MediaWiki API used by the fallback
	// knowledge adapter.
	DefaultWikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

	// DefaultServeAddr is the listen address of the HTTP adapter.
	DefaultServeAddr = "127.0.0.1:8380"

	// DefaultMode is the engine mode: "fact-seeking" tries precise-answer
	// extraction before summarizing; "summary-only" never does.
	DefaultMode = "fact-seeking"

	// AppName is the application name used for XDG directory paths.
	AppName = "omnisearch"
)

// Config holds all configuration options for omnisearch.
// It is populated from CLI flags and the optional config file, then passed
// through the application via dependency injection rather than global state.
type Config struct {
	// Mode selects the engine mode: "fact-seeking" or "summary-only".
	Mode string

	// Timeout is the per-request timeout applied to each page fetch and
	// each provider call.
	Timeout time.Duration

	// MaxResults caps how many candidate URLs are requested from the
	// search provider per query.
	MaxResults int

	// FetchLimit is how many of the top-ranked URLs are fetched
	// concurrently per query. Bounded to keep fan-out small.
	FetchLimit int

	// SummarySentences is the number of sentences kept per source summary.
	SummarySentences int

	// BatchSize is the number of queries resolved concurrently.
	BatchSize int

	// UserAgent is the User-Agent header sent with every HTTP request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger responses are truncated.
	MaxBodySize int64

	// SearchBaseURL is the base URL of the primary search provider.
	// Overridable mainly for tests.
	SearchBaseURL string

	// WikipediaAPIURL is the MediaWiki API endpoint of the fallback
	// knowledge adapter. Overridable mainly for tests.
	WikipediaAPIURL string

	// Verbose enables debug-level log output.
	Verbose bool

	// JSONReport enables JSON output. Mutually exclusive with
	// MarkdownReport and HTMLReport.
	JSONReport bool

	// MarkdownReport enables Markdown output. Mutually exclusive with
	// JSONReport and HTMLReport.
	MarkdownReport bool

	// HTMLReport enables HTML document output. Mutually exclusive with
	// JSONReport and MarkdownReport.
	HTMLReport bool

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .omnisearch in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// File holds values loaded from the config file (defaults and
	// user-defined intent rules). Populated by LoadConfigFile.
	File *File

	// SaveHistory indicates whether resolutions are recorded in the
	// history database.
	SaveHistory bool

	// HistoryDir is the directory of the history database.
	// Defaults to the XDG data directory.
	HistoryDir string

	// ServeAddr is the listen address used by the serve command.
	ServeAddr string

	// Queries is the list of queries to resolve.
	Queries []string
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so callers must not rely on the zero value of Config.
func NewConfig() *Config {
	return &Config{
		Mode:             DefaultMode,
		Timeout:          DefaultTimeout,
		MaxResults:       DefaultMaxResults,
		FetchLimit:       DefaultFetchLimit,
		SummarySentences: DefaultSummarySentences,
		BatchSize:        DefaultBatchSize,
		UserAgent:        DefaultUserAgent,
		MaxBodySize:      DefaultMaxBodySize,
		SearchBaseURL:    DefaultSearchBaseURL,
		WikipediaAPIURL:  DefaultWikipediaAPIURL,
		ServeAddr:        DefaultServeAddr,
	}
}

// XDGDataDir returns the XDG data directory for omnisearch.
// On Linux: ~/.local/share/omnisearch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for omnisearch.
// On Linux: ~/.config/omnisearch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. It returns the first
// sentinel error describing what is invalid; fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if len(c.Queries) == 0 {
		return ErrNoQuery
	}

	if c.Mode != ModeFactSeeking && c.Mode != ModeSummaryOnly {
		return ErrInvalidMode
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxResults <= 0 || c.MaxResults > MaxResultsCeiling {
		return ErrInvalidMaxResults
	}

	if c.FetchLimit <= 0 || c.FetchLimit > c.MaxResults {
		return ErrInvalidFetchLimit
	}

	if c.SummarySentences <= 0 {
		return ErrInvalidSummarySentences
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if moreThanOne(c.JSONReport, c.MarkdownReport, c.HTMLReport) {
		return ErrConflictingReportFormats
	}

	return nil
}

// Engine mode names accepted by Config.Mode.
const (
	// ModeFactSeeking tries precise-answer extraction before summarizing.
	ModeFactSeeking = "fact-seeking"

	// ModeSummaryOnly skips precise-answer extraction entirely.
	ModeSummaryOnly = "summary-only"
)

// MaxResultsCeiling is the hard upper bound on MaxResults. Requesting more
// URLs than this from the provider wastes provider quota without improving
// answers.
const MaxResultsCeiling = 10

// moreThanOne reports whether more than one of the given flags is set.
func moreThanOne(flags ...bool) bool {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n > 1
}
