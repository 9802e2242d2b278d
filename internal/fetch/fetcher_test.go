package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestFetch tests body retrieval, headers, and error typing against a
// local test server.
func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body on success", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer srv.Close()

		f := NewFetcher()
		body, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(body, "hello") {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("sends browser user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		f := NewFetcher(WithUserAgent("TestBrowser/1.0"))
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotUA != "TestBrowser/1.0" {
			t.Errorf("expected custom User-Agent, got %q", gotUA)
		}
	})

	t.Run("non-2xx status is a typed error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		defer srv.Close()

		f := NewFetcher()
		_, err := f.Fetch(context.Background(), srv.URL)
		if err == nil {
			t.Fatal("expected error for 403 response")
		}

		var fetchErr *Error
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *fetch.Error, got %T", err)
		}
		if fetchErr.StatusCode != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", fetchErr.StatusCode)
		}
	})

	t.Run("slow server hits timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte("too late"))
		}))
		defer srv.Close()

		f := NewFetcher(WithTimeout(50 * time.Millisecond))
		start := time.Now()
		_, err := f.Fetch(context.Background(), srv.URL)
		if err == nil {
			t.Fatal("expected timeout error")
		}
		if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
			t.Errorf("fetch did not respect timeout, took %v", elapsed)
		}

		var fetchErr *Error
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *fetch.Error, got %T", err)
		}
	})

	t.Run("body is capped at max size", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
		}))
		defer srv.Close()

		f := NewFetcher(WithMaxBodySize(1024))
		body, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(body) != 1024 {
			t.Errorf("expected 1024 bytes, got %d", len(body))
		}
	})

	t.Run("unreachable host is a typed error", func(t *testing.T) {
		t.Parallel()

		f := NewFetcher(WithTimeout(200 * time.Millisecond))
		_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/none")
		if err == nil {
			t.Fatal("expected connection error")
		}

		var fetchErr *Error
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *fetch.Error, got %T", err)
		}
		if fetchErr.Unwrap() == nil {
			t.Error("expected wrapped transport error")
		}
	})
}
