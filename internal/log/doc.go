// Package log provides logging helpers for omnisearch.
//
// RedactHandler wraps any slog.Handler and masks credential-looking
// attributes (auth headers, API keys, bearer/JWT tokens) before they are
// written. The cmd layer installs it around the text handler so that fetch
// and provider warnings never leak configured secrets.
package log
