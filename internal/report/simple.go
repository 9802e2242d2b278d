package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/omnisearch/internal/model"
)

// timePrecision rounds elapsed times for display.
const timePrecision = time.Millisecond

// SimpleWriter outputs human-readable text resolutions.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one resolution in human-readable format.
func (w *SimpleWriter) Write(res *model.Resolution) (int, error) {
	var sb strings.Builder
	w.writeResolution(&sb, res)
	return w.output.Write([]byte(sb.String()))
}

// WriteBatch outputs each resolution in turn, separated by a rule.
func (w *SimpleWriter) WriteBatch(results []*model.Resolution) (int, error) {
	var sb strings.Builder
	for i, res := range results {
		if i > 0 {
			sb.WriteString(strings.Repeat("-", 70))
			sb.WriteString("\n")
		}
		w.writeResolution(&sb, res)
	}
	return w.output.Write([]byte(sb.String()))
}

// writeResolution renders a single resolution.
func (w *SimpleWriter) writeResolution(sb *strings.Builder, res *model.Resolution) {
	sb.WriteString(fmt.Sprintf("Query: %s\n", res.Query))

	switch res.Kind {
	case model.KindFact:
		sb.WriteString(fmt.Sprintf("Answer: %s\n", res.Answer))
	case model.KindSummary:
		sb.WriteString(fmt.Sprintf("Sources: %d\n", len(res.Sources)))
		sb.WriteString("\n")
		for _, src := range res.Sources {
			sb.WriteString(fmt.Sprintf("  [+] %s\n", src.URL))
			sb.WriteString(fmt.Sprintf("      %s\n", src.Content))
		}
	default:
		sb.WriteString(NotFoundMessage)
		sb.WriteString("\n")
	}

	if w.verbose {
		sb.WriteString(fmt.Sprintf("\nResolved in %s\n", res.Elapsed.Round(timePrecision)))
	}
	sb.WriteString("\n")
}
