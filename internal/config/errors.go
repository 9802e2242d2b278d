package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Package-level sentinel errors let callers use errors.Is() while still
// carrying a human-readable message.
var (
	// ErrNoQuery is returned when no query is specified.
	ErrNoQuery = errors.New("no query specified: provide one or more query strings")

	// ErrInvalidMode is returned when Mode is neither "fact-seeking" nor
	// "summary-only".
	ErrInvalidMode = errors.New(`invalid mode: must be "fact-seeking" or "summary-only"`)

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxResults is returned when MaxResults is out of range.
	ErrInvalidMaxResults = errors.New("invalid max results: must be between 1 and 10")

	// ErrInvalidFetchLimit is returned when FetchLimit is not positive or
	// exceeds MaxResults. Fetching more URLs than the provider returns is
	// meaningless.
	ErrInvalidFetchLimit = errors.New("invalid fetch limit: must be between 1 and max results")

	// ErrInvalidSummarySentences is returned when the summary sentence
	// count is not positive.
	ErrInvalidSummarySentences = errors.New("invalid summary sentences: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown, and --html is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json, --markdown, and --html are mutually exclusive")
)
