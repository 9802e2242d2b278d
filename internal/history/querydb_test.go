package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/omnisearch/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *QueryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, "omnisearch.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false}
		if _, err := Open(filepath.Join(t.TempDir(), "missing"), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestSaveResolution tests the append-only log round trip.
func TestSaveResolution(t *testing.T) {
	t.Parallel()

	t.Run("fact round trip", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		res := model.NewFactResolution("prime minister of india", "Narendra Modi")
		res.Elapsed = 1200 * time.Millisecond

		id, err := db.SaveResolution(context.Background(), res)
		if err != nil {
			t.Fatalf("failed to save resolution: %v", err)
		}
		if id == 0 {
			t.Error("expected non-zero id")
		}

		entries, err := db.ByQuery(context.Background(), "prime minister of india")
		if err != nil {
			t.Fatalf("failed to load history: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}

		got := entries[0].Resolution
		if got.Kind != model.KindFact {
			t.Errorf("expected Fact, got %v", got.Kind)
		}
		if got.Answer != "Narendra Modi" {
			t.Errorf("unexpected answer: %q", got.Answer)
		}
		if got.Elapsed != 1200*time.Millisecond {
			t.Errorf("unexpected elapsed: %v", got.Elapsed)
		}
	})

	t.Run("summary stores sources in position order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		res := model.NewSummaryResolution("golden retriever", []model.FetchedSource{
			{URL: "https://example.com/a", Content: "alpha"},
			{URL: "https://example.com/b", Content: "beta"},
			{URL: "https://example.com/c", Content: "gamma"},
		})
		if _, err := db.SaveResolution(context.Background(), res); err != nil {
			t.Fatalf("failed to save resolution: %v", err)
		}

		entries, err := db.ByQuery(context.Background(), "golden retriever")
		if err != nil {
			t.Fatalf("failed to load history: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}

		sources := entries[0].Resolution.Sources
		if len(sources) != 3 {
			t.Fatalf("expected 3 sources, got %d", len(sources))
		}
		want := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}
		for i, url := range want {
			if sources[i].URL != url {
				t.Errorf("source %d: expected %q, got %q", i, url, sources[i].URL)
			}
		}
	})

	t.Run("nil resolution is rejected", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		if _, err := db.SaveResolution(context.Background(), nil); err == nil {
			t.Error("expected error for nil resolution")
		}
	})
}

// TestRecent tests the newest-first listing.
func TestRecent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	queries := []string{"first", "second", "third"}
	for _, q := range queries {
		if _, err := db.SaveResolution(context.Background(), model.NewNotFoundResolution(q)); err != nil {
			t.Fatalf("failed to save resolution: %v", err)
		}
	}

	entries, err := db.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Resolution.Query != "third" {
		t.Errorf("expected newest entry first, got %q", entries[0].Resolution.Query)
	}
	if entries[1].Resolution.Query != "second" {
		t.Errorf("expected second-newest entry, got %q", entries[1].Resolution.Query)
	}
}
