package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/omnisearch/internal/model"
)

// QueryDB provides SQLite-based storage for past resolutions.
// It is an append-only audit log: resolutions are recorded after the
// fact and never consulted during resolution, so stored entries cannot
// shadow live results.
type QueryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures QueryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a QueryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*QueryDB, error) {
	dbPath := filepath.Join(dbDir, "omnisearch.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	qdb := &QueryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := qdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return qdb, nil
}

// Close closes the database connection.
func (qdb *QueryDB) Close() error {
	return qdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (qdb *QueryDB) createTables() error {
	schema := `
	-- Resolutions store one row per resolved query
	CREATE TABLE IF NOT EXISTS resolutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		kind TEXT NOT NULL,
		answer TEXT,
		resolved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		elapsed_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_resolutions_query ON resolutions(query);
	CREATE INDEX IF NOT EXISTS idx_resolutions_resolved_at ON resolutions(resolved_at);

	-- Sources store the fetched pages backing a summary resolution
	CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		resolution_id INTEGER NOT NULL REFERENCES resolutions(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		content TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sources_resolution ON sources(resolution_id);
	`

	_, err := qdb.db.ExecContext(context.Background(), schema)
	return err
}

// Entry is a stored resolution with its database identity.
type Entry struct {
	// ID is the unique identifier of the resolution in the database.
	ID int64

	// Resolution is the stored outcome.
	Resolution model.Resolution
}

// SaveResolution appends a resolution and its sources to the log.
func (qdb *QueryDB) SaveResolution(ctx context.Context, res *model.Resolution) (int64, error) {
	if res == nil {
		return 0, errors.New("nil resolution")
	}

	tx, err := qdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	result, err := tx.ExecContext(ctx,
		`INSERT INTO resolutions (query, kind, answer, resolved_at, elapsed_ms) VALUES (?, ?, ?, ?, ?)`,
		res.Query,
		res.Kind.String(),
		res.Answer,
		res.ResolvedAt.UTC().Format("2006-01-02 15:04:05"),
		res.Elapsed.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert resolution: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read resolution id: %w", err)
	}

	for i, src := range res.Sources {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sources (resolution_id, position, url, content) VALUES (?, ?, ?, ?)`,
			id, i, src.URL, src.Content,
		); err != nil {
			return 0, fmt.Errorf("failed to insert source: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit resolution: %w", err)
	}

	return id, nil
}

// Recent returns the most recent entries, newest first.
func (qdb *QueryDB) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := qdb.db.QueryContext(ctx,
		`SELECT id, query, kind, answer, resolved_at, elapsed_ms
		FROM resolutions
		ORDER BY id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries, err := qdb.scanEntries(ctx, rows)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ByQuery returns every stored resolution of the given query, newest first.
func (qdb *QueryDB) ByQuery(ctx context.Context, query string) ([]Entry, error) {
	rows, err := qdb.db.QueryContext(ctx,
		`SELECT id, query, kind, answer, resolved_at, elapsed_ms
		FROM resolutions
		WHERE query = ?
		ORDER BY id DESC`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries, err := qdb.scanEntries(ctx, rows)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// scanEntries materializes rows into entries and attaches their sources.
func (qdb *QueryDB) scanEntries(ctx context.Context, rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			kind      string
			answer    sql.NullString
			timestamp string
			elapsedMS int64
		)

		if err := rows.Scan(&entry.ID, &entry.Resolution.Query, &kind, &answer, &timestamp, &elapsedMS); err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}

		entry.Resolution.Kind = parseKind(kind)
		entry.Resolution.Answer = answer.String
		entry.Resolution.ResolvedAt = parseTimestamp(timestamp)
		entry.Resolution.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		sources, err := qdb.sourcesFor(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Resolution.Sources = sources
	}

	return entries, nil
}

// sourcesFor loads the sources of one stored resolution in position order.
func (qdb *QueryDB) sourcesFor(ctx context.Context, resolutionID int64) ([]model.FetchedSource, error) {
	rows, err := qdb.db.QueryContext(ctx,
		`SELECT url, content FROM sources WHERE resolution_id = ? ORDER BY position`,
		resolutionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []model.FetchedSource
	for rows.Next() {
		var src model.FetchedSource
		if err := rows.Scan(&src.URL, &src.Content); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// parseKind converts a stored kind name back to a model.Kind.
func parseKind(s string) model.Kind {
	switch s {
	case "fact":
		return model.KindFact
	case "summary":
		return model.KindSummary
	default:
		return model.KindNotFound
	}
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
