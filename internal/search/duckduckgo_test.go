package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// resultPage builds a minimal DuckDuckGo HTML result page with the given
// destination URLs wrapped in redirect links.
func resultPage(destinations ...string) string {
	page := `<html><body><div id="links">`
	for i, dest := range destinations {
		page += fmt.Sprintf(
			`<div class="result"><h2 class="result__title">`+
				`<a class="result__a" href="//duckduckgo.com/l/?uddg=%s&rut=abc">Result %d</a></h2>`+
				`<a class="result__snippet" href="#">snippet %d</a></div>`,
			url.QueryEscape(dest), i, i,
		)
	}
	return page + `</div></body></html>`
}

// TestDuckDuckGoSearch tests result parsing, redirect decoding, limits, and
// error typing.
func TestDuckDuckGoSearch(t *testing.T) {
	t.Parallel()

	t.Run("parses results in rank order", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("q") == "" {
				t.Error("expected q parameter")
			}
			_, _ = w.Write([]byte(resultPage(
				"https://example.com/first",
				"https://example.com/second",
				"https://example.com/third",
			)))
		}))
		defer srv.Close()

		d := NewDuckDuckGo(WithDuckDuckGoBaseURL(srv.URL))
		results, err := d.Search(context.Background(), "golden retriever", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		want := []string{
			"https://example.com/first",
			"https://example.com/second",
			"https://example.com/third",
		}
		for i, r := range results {
			if r.URL != want[i] {
				t.Errorf("result %d = %q, want %q", i, r.URL, want[i])
			}
		}
		if results[0].Title != "Result 0" {
			t.Errorf("expected title 'Result 0', got %q", results[0].Title)
		}
	})

	t.Run("respects result limit", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(resultPage(
				"https://example.com/1",
				"https://example.com/2",
				"https://example.com/3",
				"https://example.com/4",
			)))
		}))
		defer srv.Close()

		d := NewDuckDuckGo(WithDuckDuckGoBaseURL(srv.URL))
		results, err := d.Search(context.Background(), "anything", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 {
			t.Errorf("expected 2 results, got %d", len(results))
		}
	})

	t.Run("preserves escapes in redirect destinations", func(t *testing.T) {
		t.Parallel()

		// The destination carries its own %XX escapes and a literal +;
		// unwrapping the redirect must decode exactly once.
		dest := "https://example.com/a+b/file%20name.html?q=1%2B2"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(resultPage(dest)))
		}))
		defer srv.Close()

		d := NewDuckDuckGo(WithDuckDuckGoBaseURL(srv.URL))
		results, err := d.Search(context.Background(), "anything", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0].URL != dest {
			t.Errorf("expected %q, got %+v", dest, results)
		}
	})

	t.Run("keeps direct links untouched", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<div><a class="result__a" href="https://example.com/direct">Direct</a></div>`))
		}))
		defer srv.Close()

		d := NewDuckDuckGo(WithDuckDuckGoBaseURL(srv.URL))
		results, err := d.Search(context.Background(), "anything", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0].URL != "https://example.com/direct" {
			t.Errorf("unexpected results: %+v", results)
		}
	})

	t.Run("empty result page yields empty slice and nil error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html><body><div id="links"></div></body></html>`))
		}))
		defer srv.Close()

		d := NewDuckDuckGo(WithDuckDuckGoBaseURL(srv.URL))
		results, err := d.Search(context.Background(), "gibberish", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})

	t.Run("non-200 status is a typed provider error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "blocked", http.StatusForbidden)
		}))
		defer srv.Close()

		d := NewDuckDuckGo(WithDuckDuckGoBaseURL(srv.URL))
		_, err := d.Search(context.Background(), "anything", 5)
		if err == nil {
			t.Fatal("expected error for 403 response")
		}

		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			t.Fatalf("expected *ProviderError, got %T", err)
		}
		if provErr.Provider != "duckduckgo" {
			t.Errorf("expected provider 'duckduckgo', got %q", provErr.Provider)
		}
	})

	t.Run("unreachable endpoint is a typed provider error", func(t *testing.T) {
		t.Parallel()

		d := NewDuckDuckGo(WithDuckDuckGoBaseURL("http://127.0.0.1:1"))
		_, err := d.Search(context.Background(), "anything", 5)

		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			t.Fatalf("expected *ProviderError, got %T", err)
		}
	})
}

// TestClampLimit tests the provider-side result cap.
func TestClampLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		limit    int
		fallback int
		want     int
	}{
		{name: "in range unchanged", limit: 5, fallback: 5, want: 5},
		{name: "zero uses fallback", limit: 0, fallback: 5, want: 5},
		{name: "negative uses fallback", limit: -1, fallback: 3, want: 3},
		{name: "above ceiling clamps to 10", limit: 50, fallback: 5, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := clampLimit(tt.limit, tt.fallback); got != tt.want {
				t.Errorf("clampLimit(%d, %d) = %d, want %d", tt.limit, tt.fallback, got, tt.want)
			}
		})
	}
}
