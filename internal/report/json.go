package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/omnisearch/internal/model"
)

// NotFoundMessage is the error message emitted for NotFound resolutions.
const NotFoundMessage = "Could not find a relevant answer for that query."

// JSONWriter outputs resolutions in the wire JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       false,
		indentPrefix: "",
		indentString: "",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one resolution as a single JSON object.
func (w *JSONWriter) Write(res *model.Resolution) (int, error) {
	return w.writeJSON(Payload(res))
}

// WriteBatch outputs the resolutions as a JSON array in input order.
func (w *JSONWriter) WriteBatch(results []*model.Resolution) (int, error) {
	payloads := make([]*WirePayload, 0, len(results))
	for _, res := range results {
		payloads = append(payloads, Payload(res))
	}
	return w.writeJSON(payloads)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// WirePayload is the serialized shape of one resolution.
//
// Design decision: We map resolutions to a wire struct rather than
// marshaling model.Resolution directly so the external format stays
// stable even when the internal struct grows fields. NotFound becomes
// an error object with a fixed message; Fact and Summary carry a type
// discriminator.
type WirePayload struct {
	// Type is "fact" or "summary". Empty for the error shape.
	Type string `json:"type,omitempty"`

	// Query is the original query. Omitted in the error shape.
	Query string `json:"query,omitempty"`

	// Answer carries the precise answer of a fact payload.
	Answer string `json:"answer,omitempty"`

	// Sources carries the summarized sources of a summary payload.
	Sources []model.FetchedSource `json:"sources,omitempty"`

	// Error carries the not-found message.
	Error string `json:"error,omitempty"`
}

// Payload converts a resolution into its wire shape.
func Payload(res *model.Resolution) *WirePayload {
	switch res.Kind {
	case model.KindFact:
		return &WirePayload{
			Type:   "fact",
			Query:  res.Query,
			Answer: res.Answer,
		}
	case model.KindSummary:
		return &WirePayload{
			Type:    "summary",
			Query:   res.Query,
			Sources: res.Sources,
		}
	default:
		return &WirePayload{Error: NotFoundMessage}
	}
}
