package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/nao1215/omnisearch/internal/model"
	"github.com/nao1215/omnisearch/internal/search"
)

// countingFetcher tracks the peak number of concurrently running fetches.
type countingFetcher struct {
	mu      sync.Mutex
	running int
	peak    int
}

func (f *countingFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	f.running++
	if f.running > f.peak {
		f.peak = f.running
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.running--
		f.mu.Unlock()
	}()
	return "<p>some text.</p>", nil
}

// TestResolveAllOrder verifies resolutions come back in input order even
// though queries resolve concurrently.
func TestResolveAllOrder(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{results: []search.Result{{URL: "https://example.com/page"}}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/page": "<p>page text.</p>",
	}}

	bp := NewBatchProcessor(New(provider, &fakeKnowledge{}, fetcher))

	queries := make([]string, 10)
	for i := range queries {
		queries[i] = fmt.Sprintf("query %d", i)
	}

	results, err := bp.ResolveAll(context.Background(), queries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != len(queries) {
		t.Fatalf("expected %d results, got %d", len(queries), len(results))
	}
	for i, res := range results {
		if res == nil {
			t.Fatalf("result %d is nil", i)
		}
		if res.Query != queries[i] {
			t.Errorf("result %d: expected query %q, got %q", i, queries[i], res.Query)
		}
	}
}

// TestResolveAllIsolatesFailures verifies a bad query in a batch becomes a
// NotFound placeholder instead of poisoning its neighbors.
func TestResolveAllIsolatesFailures(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{results: []search.Result{{URL: "https://example.com/page"}}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/page": "<p>page text.</p>",
	}}

	bp := NewBatchProcessor(New(provider, &fakeKnowledge{}, fetcher))

	results, err := bp.ResolveAll(context.Background(), []string{"good", "", "also good"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results[0].Kind != model.KindSummary {
		t.Errorf("expected Summary for first query, got %v", results[0].Kind)
	}
	if results[1].Kind != model.KindNotFound {
		t.Errorf("expected NotFound placeholder for empty query, got %v", results[1].Kind)
	}
	if results[2].Kind != model.KindSummary {
		t.Errorf("expected Summary for last query, got %v", results[2].Kind)
	}
}

// TestResolveAllConcurrencyLimit verifies the batch never runs more
// resolutions at once than configured.
func TestResolveAllConcurrencyLimit(t *testing.T) {
	t.Parallel()

	fetcher := &countingFetcher{}
	provider := &fakeProvider{results: []search.Result{{URL: "https://example.com/page"}}}

	// fetchLimit 1 makes peak fetches equal peak concurrent resolutions.
	e := New(provider, &fakeKnowledge{}, fetcher, WithFetchLimit(1))
	bp := NewBatchProcessor(e, WithConcurrency(2))

	queries := make([]string, 12)
	for i := range queries {
		queries[i] = fmt.Sprintf("query %d", i)
	}

	if _, err := bp.ResolveAll(context.Background(), queries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetcher.mu.Lock()
	peak := fetcher.peak
	fetcher.mu.Unlock()
	if peak > 2 {
		t.Errorf("expected at most 2 concurrent resolutions, saw %d", peak)
	}
}

// TestResolveAllEmpty tests the zero-query batch.
func TestResolveAllEmpty(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(New(&fakeProvider{}, &fakeKnowledge{}, &fakeFetcher{}))
	results, err := bp.ResolveAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
