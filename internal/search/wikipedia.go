package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/omnisearch/internal/config"
	"github.com/nao1215/omnisearch/internal/model"
)

// ErrNoArticle is returned by Lookup when the knowledge base has no
// matching article. It marks a clean miss, not a transport failure.
var ErrNoArticle = errors.New("wikipedia: no matching article")

// Wikipedia is the fallback knowledge adapter. It performs a two-step
// lookup against the MediaWiki API: search for the best-matching article
// title, then fetch that article's plain-text extract. The API returns
// clean text, so results bypass the page fetcher entirely.
type Wikipedia struct {
	// client performs the HTTP requests.
	client *http.Client

	// apiURL is the MediaWiki API endpoint, overridable for tests.
	apiURL string

	// userAgent identifies this tool to the API. The MediaWiki API
	// rejects empty or generic identities with 403.
	userAgent string

	// timeout bounds each API request.
	timeout time.Duration
}

// WikipediaOption configures a Wikipedia adapter.
type WikipediaOption func(*Wikipedia)

// WithWikipediaClient sets a custom HTTP client.
func WithWikipediaClient(client *http.Client) WikipediaOption {
	return func(w *Wikipedia) {
		w.client = client
	}
}

// WithWikipediaAPIURL overrides the MediaWiki API endpoint.
func WithWikipediaAPIURL(apiURL string) WikipediaOption {
	return func(w *Wikipedia) {
		w.apiURL = apiURL
	}
}

// WithWikipediaUserAgent sets the User-Agent sent to the API.
func WithWikipediaUserAgent(ua string) WikipediaOption {
	return func(w *Wikipedia) {
		if ua != "" {
			w.userAgent = ua
		}
	}
}

// WithWikipediaTimeout sets the per-request timeout.
func WithWikipediaTimeout(d time.Duration) WikipediaOption {
	return func(w *Wikipedia) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// NewWikipedia creates a Wikipedia adapter with default settings.
func NewWikipedia(opts ...WikipediaOption) *Wikipedia {
	w := &Wikipedia{
		client:    &http.Client{},
		apiURL:    config.DefaultWikipediaAPIURL,
		userAgent: config.AppName + "/1.0 (https://example.org/omnisearch)",
		timeout:   config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// searchResponse is the subset of the list=search API response we read.
type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// extractResponse is the subset of the prop=extracts API response we read.
type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string  `json:"title"`
			Extract string  `json:"extract"`
			Missing *string `json:"missing,omitempty"`
		} `json:"pages"`
	} `json:"query"`
}

// SearchTitle returns the best-matching article title for the query.
// A clean miss is ErrNoArticle.
func (w *Wikipedia) SearchTitle(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action":   {"query"},
		"format":   {"json"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"1"},
	}

	var sr searchResponse
	if err := w.get(ctx, params, &sr); err != nil {
		return "", err
	}

	if len(sr.Query.Search) == 0 {
		return "", ErrNoArticle
	}
	return sr.Query.Search[0].Title, nil
}

// FetchExtract returns the plain-text extract of an article by exact title.
// A missing page is ErrNoArticle.
func (w *Wikipedia) FetchExtract(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"prop":        {"extracts"},
		"explaintext": {"1"},
		"titles":      {title},
	}

	var er extractResponse
	if err := w.get(ctx, params, &er); err != nil {
		return "", err
	}

	for _, page := range er.Query.Pages {
		if page.Missing != nil {
			continue
		}
		if page.Extract != "" {
			return page.Extract, nil
		}
	}
	return "", ErrNoArticle
}

// Lookup composes SearchTitle and FetchExtract into at most one synthesized
// source with the article's canonical URL. A miss at either step returns
// ErrNoArticle; transport failures are *ProviderError.
func (w *Wikipedia) Lookup(ctx context.Context, query string) (*model.FetchedSource, error) {
	title, err := w.SearchTitle(ctx, query)
	if err != nil {
		return nil, err
	}

	extract, err := w.FetchExtract(ctx, title)
	if err != nil {
		return nil, err
	}

	return &model.FetchedSource{
		URL:     w.articleURL(title),
		Content: extract,
	}, nil
}

// articleURL builds the canonical article URL for a title.
func (w *Wikipedia) articleURL(title string) string {
	base := strings.TrimSuffix(w.apiURL, "/w/api.php")
	return base + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// get performs one API request and decodes the JSON response into out.
func (w *Wikipedia) get(ctx context.Context, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return &ProviderError{Provider: "wikipedia", Err: err}
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return &ProviderError{Provider: "wikipedia", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{
			Provider: "wikipedia",
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Provider: "wikipedia", Err: err}
	}
	return nil
}
