package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/omnisearch/internal/config"
	"github.com/nao1215/omnisearch/internal/extract"
	"github.com/nao1215/omnisearch/internal/model"
	"github.com/nao1215/omnisearch/internal/search"
)

// ErrEmptyQuery is returned when Resolve is called with an empty query.
var ErrEmptyQuery = errors.New("empty query")

// Mode selects how the engine treats precise answers.
type Mode int

const (
	// ModeFactSeeking tries precise-answer extraction before summarizing.
	ModeFactSeeking Mode = iota

	// ModeSummaryOnly never runs extraction rules; every resolution is a
	// summary or not found.
	ModeSummaryOnly
)

// ParseMode converts a config mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case config.ModeFactSeeking:
		return ModeFactSeeking, nil
	case config.ModeSummaryOnly:
		return ModeSummaryOnly, nil
	default:
		return ModeFactSeeking, config.ErrInvalidMode
	}
}

// Fetcher retrieves a single URL's raw body.
// *fetch.Fetcher implements this; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Knowledge is the fallback knowledge source consulted when the primary
// search yields nothing. *search.Wikipedia implements this.
type Knowledge interface {
	Lookup(ctx context.Context, query string) (*model.FetchedSource, error)
}

// Engine resolves queries: it searches, fans out concurrent fetches over
// the top-ranked URLs, races them for an early precise answer, and
// aggregates partial failures into a best-effort Resolution.
//
// An Engine is safe for concurrent use; resolutions share no mutable state
// with each other.
type Engine struct {
	// provider is the primary search backend.
	provider search.Provider

	// knowledge is the fallback knowledge adapter.
	knowledge Knowledge

	// fetcher retrieves candidate pages.
	fetcher Fetcher

	// rules is the precise-answer rule table.
	rules *extract.Rules

	// mode selects fact-seeking or summary-only behavior.
	mode Mode

	// maxResults caps the provider result count per query.
	maxResults int

	// fetchLimit is the concurrent fetch fan-out per query.
	fetchLimit int

	// summarySentences is the sentences kept per source summary.
	summarySentences int

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMode sets the engine mode.
func WithMode(mode Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithMaxResults caps the provider result count per query.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithFetchLimit sets the concurrent fetch fan-out per query.
func WithFetchLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.fetchLimit = n
		}
	}
}

// WithSummarySentences sets the sentences kept per source summary.
func WithSummarySentences(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.summarySentences = n
		}
	}
}

// WithRules replaces the precise-answer rule table.
func WithRules(rules *extract.Rules) Option {
	return func(e *Engine) {
		if rules != nil {
			e.rules = rules
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine. The provider, knowledge adapter, and fetcher are
// required; everything else has defaults.
func New(provider search.Provider, knowledge Knowledge, fetcher Fetcher, opts ...Option) *Engine {
	e := &Engine{
		provider:         provider,
		knowledge:        knowledge,
		fetcher:          fetcher,
		rules:            extract.DefaultRules(),
		mode:             ModeFactSeeking,
		maxResults:       config.DefaultMaxResults,
		fetchLimit:       config.DefaultFetchLimit,
		summarySentences: config.DefaultSummarySentences,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Resolve answers a single query. It never returns an error for upstream
// failures; those degrade to fallback lookups or a NotFound resolution.
// The only error conditions are an empty query and a cancelled context.
func (e *Engine) Resolve(ctx context.Context, query string) (*model.Resolution, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	results, err := e.provider.Search(ctx, query, e.maxResults)
	if err != nil {
		// Provider failure routes to fallback, never to the caller.
		var provErr *search.ProviderError
		if errors.As(err, &provErr) {
			e.logger.Warn("search provider failed, falling back",
				"provider", provErr.Provider,
				"query", query,
				"error", err,
			)
		} else {
			e.logger.Warn("search failed, falling back", "query", query, "error", err)
		}
		return e.finish(e.fallback(ctx, query), start), nil
	}

	if len(results) == 0 {
		e.logger.Debug("search returned no results, falling back", "query", query)
		return e.finish(e.fallback(ctx, query), start), nil
	}

	urls := make([]string, 0, e.fetchLimit)
	for _, r := range results {
		if len(urls) == e.fetchLimit {
			break
		}
		urls = append(urls, r.URL)
	}

	answer, sources := e.fetchAll(ctx, query, urls)

	// A precise answer is the terminal truth; collected sources become
	// supporting context and are dropped in Fact mode.
	if answer != "" {
		return e.finish(model.NewFactResolution(query, answer), start), nil
	}
	if len(sources) > 0 {
		return e.finish(model.NewSummaryResolution(query, sources), start), nil
	}

	// The search found URLs but every fetch failed. That is a NotFound,
	// not a fallback: the provider did its job.
	e.logger.Debug("all fetches failed", "query", query, "urls", len(urls))
	return e.finish(model.NewNotFoundResolution(query), start), nil
}

// fetchAll fans one goroutine out per URL, collects summarized sources in
// completion order, and races the tasks for the first precise answer.
// All dispatched fetches run to completion even after an answer is found;
// in-flight requests are allowed to finish so their sources are not wasted.
func (e *Engine) fetchAll(ctx context.Context, query string, urls []string) (string, []model.FetchedSource) {
	var (
		slot    answerSlot
		mu      sync.Mutex
		sources []model.FetchedSource
	)

	rule, ruleOK := e.matchRule(query)

	var g errgroup.Group
	for _, pageURL := range urls {
		g.Go(func() error {
			body, err := e.fetcher.Fetch(ctx, pageURL)
			if err != nil {
				// One bad URL must not abort its siblings.
				e.logger.Warn("fetch failed", "url", pageURL, "error", err)
				return nil
			}

			text := extract.StripMarkup(body)

			if ruleOK && !slot.found() {
				if answer, ok := rule.Extract(query, pageURL, text); ok {
					if slot.set(answer) {
						e.logger.Debug("precise answer extracted",
							"rule", rule.Name,
							"url", pageURL,
						)
					}
				}
			}

			// Every successful task contributes a source, answer or not.
			source := model.FetchedSource{
				URL:     pageURL,
				Content: extract.Summarize(text, e.summarySentences),
			}
			mu.Lock()
			sources = append(sources, source)
			mu.Unlock()
			return nil
		})
	}

	// Join barrier: tasks never return errors, so Wait only synchronizes.
	_ = g.Wait()

	answer, _ := slot.get()
	return answer, sources
}

// matchRule returns the applicable rule in fact-seeking mode.
func (e *Engine) matchRule(query string) (extract.Rule, bool) {
	if e.mode != ModeFactSeeking {
		return extract.Rule{}, false
	}
	return e.rules.Match(query)
}

// fallback consults the knowledge adapter. Its single source, if any,
// becomes the whole source list.
func (e *Engine) fallback(ctx context.Context, query string) *model.Resolution {
	src, err := e.knowledge.Lookup(ctx, query)
	if err != nil {
		if !errors.Is(err, search.ErrNoArticle) {
			e.logger.Warn("knowledge fallback failed", "query", query, "error", err)
		}
		return model.NewNotFoundResolution(query)
	}
	return model.NewSummaryResolution(query, []model.FetchedSource{*src})
}

// finish stamps the elapsed time onto a resolution.
func (e *Engine) finish(res *model.Resolution, start time.Time) *model.Resolution {
	res.Elapsed = time.Since(start)
	return res
}

// answerSlot is the one piece of state shared across concurrent fetch
// tasks. The first writer wins; later answers are discarded even if they
// differ.
type answerSlot struct {
	mu     sync.Mutex
	answer string
	isSet  bool
}

// set stores the answer if the slot is still empty and reports whether
// this caller won. Check-and-set is atomic under the mutex.
func (s *answerSlot) set(answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isSet {
		return false
	}
	s.answer = answer
	s.isSet = true
	return true
}

// found reports whether an answer has been stored. Used as a cheap
// pre-check; winners are decided by set.
func (s *answerSlot) found() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isSet
}

// get returns the stored answer, if any.
func (s *answerSlot) get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answer, s.isSet
}
