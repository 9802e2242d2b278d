package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nao1215/omnisearch/internal/config"
)

// DuckDuckGo queries the DuckDuckGo HTML endpoint and parses the ranked
// result list. The HTML endpoint needs no API key but rejects default
// library User-Agents, so a browser identity is mandatory.
type DuckDuckGo struct {
	// client performs the HTTP requests.
	client *http.Client

	// baseURL is the endpoint base, overridable for tests.
	baseURL string

	// userAgent is the User-Agent header value.
	userAgent string

	// timeout bounds each search request.
	timeout time.Duration
}

// DuckDuckGoOption configures a DuckDuckGo provider.
type DuckDuckGoOption func(*DuckDuckGo)

// WithDuckDuckGoClient sets a custom HTTP client.
func WithDuckDuckGoClient(client *http.Client) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.client = client
	}
}

// WithDuckDuckGoBaseURL overrides the endpoint base URL.
func WithDuckDuckGoBaseURL(baseURL string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithDuckDuckGoUserAgent sets a custom User-Agent header.
func WithDuckDuckGoUserAgent(ua string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// WithDuckDuckGoTimeout sets the per-request timeout.
func WithDuckDuckGoTimeout(d time.Duration) DuckDuckGoOption {
	return func(p *DuckDuckGo) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewDuckDuckGo creates a DuckDuckGo provider with default settings.
func NewDuckDuckGo(opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		client:    &http.Client{},
		baseURL:   config.DefaultSearchBaseURL,
		userAgent: config.DefaultUserAgent,
		timeout:   config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Name returns the provider identifier.
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search queries the HTML endpoint and returns up to limit ranked results.
// An empty result list with a nil error means the provider answered but
// found nothing; both cases route the engine to its fallback.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	limit = clampLimit(limit, config.DefaultMaxResults)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	endpoint := d.baseURL + "/html/?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Provider: d.Name(), Err: err}
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: d.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider: d.Name(),
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	results, err := parseResultPage(resp.Body, limit)
	if err != nil {
		return nil, &ProviderError{Provider: d.Name(), Err: err}
	}

	return results, nil
}

// parseResultPage extracts ranked result anchors from the HTML endpoint's
// response. Result links carry the "result__a" class; snippets carry
// "result__snippet". Document order is the provider's relevance order and
// is preserved.
func parseResultPage(body io.Reader, limit int) ([]Result, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, limit)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit {
			return
		}

		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			href := getAttr(n, "href")
			if target := resolveRedirect(href); target != "" {
				results = append(results, Result{
					URL:   target,
					Title: strings.TrimSpace(nodeText(n)),
				})
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<encoded> redirect links to
// the destination URL. Direct links pass through; anything unparseable is
// dropped.
func resolveRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	// Redirect links use the /l/?uddg=<encoded> path on both absolute and
	// scheme-relative hrefs. Query().Get already percent-decodes the
	// parameter; decoding again would corrupt destinations that carry their
	// own escapes.
	if strings.HasPrefix(u.Path, "/l/") {
		return u.Query().Get("uddg")
	}

	return href
}

// hasClass reports whether the node's class attribute contains the given
// class name.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// nodeText collects the text content of a node's subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
