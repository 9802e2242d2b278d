package search

import (
	"context"
	"fmt"
)

// Result is a single ranked search result. Providers return candidate URLs
// only; they never fetch page content themselves.
type Result struct {
	// URL is the candidate page URL.
	URL string

	// Title is the result title, if the provider exposes one.
	Title string

	// Snippet is a short result description, if available.
	Snippet string
}

// Provider is the interface search backends implement.
type Provider interface {
	// Name returns the provider identifier (e.g. "duckduckgo").
	Name() string

	// Search executes a query and returns up to limit ranked results.
	// Provider failures are returned as *ProviderError so the caller can
	// choose a fallback policy rather than having errors swallowed here.
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// ProviderError is a typed search provider failure. The resolution engine
// matches on this kind to decide fallback; it is never surfaced to the end
// user as a hard failure.
type ProviderError struct {
	// Provider is the failing provider's name.
	Provider string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("search provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// clampLimit bounds a requested result count to 1..10.
// Requesting more wastes provider quota; zero or negative falls back to
// the given default.
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit > 10 {
		limit = 10
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
