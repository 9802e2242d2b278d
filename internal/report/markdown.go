package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/omnisearch/internal/model"
)

// MarkdownWriter outputs resolutions in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one resolution in Markdown format.
func (w *MarkdownWriter) Write(res *model.Resolution) (int, error) {
	return w.WriteBatch([]*model.Resolution{res})
}

// WriteBatch outputs the resolutions as one Markdown document in input order.
func (w *MarkdownWriter) WriteBatch(results []*model.Resolution) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Search Results")
	md.PlainText("")

	w.writeOverview(md, results)

	for _, res := range results {
		w.writeResolution(md, res)
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by omnisearch*")

	return len(md.String()), md.Build()
}

// writeOverview writes the outcome summary table.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, results []*model.Resolution) {
	var facts, summaries, misses int
	for _, res := range results {
		switch res.Kind {
		case model.KindFact:
			facts++
		case model.KindSummary:
			summaries++
		default:
			misses++
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Facts", strconv.Itoa(facts)},
			{"Summaries", strconv.Itoa(summaries)},
			{"Not Found", strconv.Itoa(misses)},
		},
	})
	md.PlainText("")

	if misses > 0 && facts == 0 && summaries == 0 {
		md.Warningf("No query produced an answer.")
		md.PlainText("")
	}
}

// writeResolution writes one resolution section.
func (w *MarkdownWriter) writeResolution(md *markdown.Markdown, res *model.Resolution) {
	md.H2(res.Query)
	md.PlainText("")

	switch res.Kind {
	case model.KindFact:
		md.Notef("**%s**", res.Answer)
		md.PlainText("")
	case model.KindSummary:
		for _, src := range res.Sources {
			md.H3(src.URL)
			md.PlainText("")
			md.PlainText(src.Content)
			md.PlainText("")
		}
	default:
		md.PlainText(NotFoundMessage)
		md.PlainText("")
	}

	md.PlainTextf("*Resolved in %s*", res.Elapsed.Round(timePrecision))
	md.PlainText("")
}
