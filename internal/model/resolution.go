package model

import "time"

// Kind identifies the terminal outcome of a resolution.
// Exactly one kind applies to any Resolution.
type Kind int

const (
	// KindNotFound means neither a precise answer nor any source was produced.
	// This is a valid terminal outcome, not an error.
	KindNotFound Kind = iota

	// KindFact means a precise answer was extracted from a fetched page.
	KindFact

	// KindSummary means no precise answer was found, but one or more
	// sources were fetched and summarized.
	KindSummary
)

// String returns the lowercase name of the kind as used in JSON output.
func (k Kind) String() string {
	switch k {
	case KindFact:
		return "fact"
	case KindSummary:
		return "summary"
	default:
		return "not_found"
	}
}

// FetchedSource is a successfully fetched and cleaned page.
// Content is summarized plain text, never raw markup.
// A FetchedSource is immutable once constructed.
type FetchedSource struct {
	// URL is the page the content was fetched from.
	URL string `json:"url"`

	// Content is the cleaned, summarized text of the page.
	Content string `json:"content"`
}

// Resolution is the terminal result of resolving one query.
//
// Design decision: We use a single struct with a Kind discriminator rather
// than three types because report writers and the history store handle all
// outcomes uniformly, and the kind is needed in serialized form anyway.
type Resolution struct {
	// Query is the original query string, unmodified.
	Query string `json:"query"`

	// Kind is the outcome discriminator.
	Kind Kind `json:"kind"`

	// Answer is the precise answer. Set only when Kind is KindFact.
	Answer string `json:"answer,omitempty"`

	// Sources are the fetched sources in completion order.
	// Set only when Kind is KindSummary. Completion order is a function of
	// network latency and is not stable across runs.
	Sources []FetchedSource `json:"sources,omitempty"`

	// ResolvedAt is when the resolution completed.
	ResolvedAt time.Time `json:"resolved_at"`

	// Elapsed is the total wall time of the resolve call.
	Elapsed time.Duration `json:"elapsed"`
}

// NewFactResolution creates a Fact resolution carrying a precise answer.
// A Fact always wins over collected sources; they are intentionally dropped.
func NewFactResolution(query, answer string) *Resolution {
	return &Resolution{
		Query:      query,
		Kind:       KindFact,
		Answer:     answer,
		ResolvedAt: time.Now(),
	}
}

// NewSummaryResolution creates a Summary resolution from fetched sources.
// The sources slice is kept as given; callers pass completion order.
func NewSummaryResolution(query string, sources []FetchedSource) *Resolution {
	return &Resolution{
		Query:      query,
		Kind:       KindSummary,
		Sources:    sources,
		ResolvedAt: time.Now(),
	}
}

// NewNotFoundResolution creates a NotFound resolution.
func NewNotFoundResolution(query string) *Resolution {
	return &Resolution{
		Query:      query,
		Kind:       KindNotFound,
		ResolvedAt: time.Now(),
	}
}
