package report

import (
	"html/template"
	"io"
	"strings"

	"github.com/nao1215/omnisearch/internal/model"
)

// htmlTemplate renders a batch of resolutions as a standalone page.
var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Search Results</title>
<style>
body { font-family: sans-serif; max-width: 50rem; margin: 2rem auto; padding: 0 1rem; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: 0.3rem; }
.answer { font-size: 1.2rem; font-weight: bold; }
.source { margin: 0.8rem 0; }
.source a { word-break: break-all; }
.miss { color: #777; }
.elapsed { color: #999; font-size: 0.8rem; }
</style>
</head>
<body>
<h1>Search Results</h1>
{{range .}}
<h2>{{.Query}}</h2>
{{if .Answer}}
<p class="answer">{{.Answer}}</p>
{{else if .Sources}}
{{range .Sources}}
<div class="source">
<a href="{{.URL}}">{{.URL}}</a>
<p>{{.Content}}</p>
</div>
{{end}}
{{else}}
<p class="miss">{{.Miss}}</p>
{{end}}
<p class="elapsed">Resolved in {{.Elapsed}}</p>
{{end}}
</body>
</html>
`))

// htmlResolution is the template view of one resolution.
type htmlResolution struct {
	Query   string
	Answer  string
	Sources []model.FetchedSource
	Miss    string
	Elapsed string
}

// HTMLWriter outputs resolutions as a standalone HTML page.
// Template rendering escapes all query and page content, so fetched
// text cannot inject markup into the report.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one resolution as an HTML page.
func (w *HTMLWriter) Write(res *model.Resolution) (int, error) {
	return w.WriteBatch([]*model.Resolution{res})
}

// WriteBatch outputs the resolutions as one HTML page in input order.
func (w *HTMLWriter) WriteBatch(results []*model.Resolution) (int, error) {
	views := make([]htmlResolution, 0, len(results))
	for _, res := range results {
		view := htmlResolution{
			Query:   res.Query,
			Elapsed: res.Elapsed.Round(timePrecision).String(),
		}
		switch res.Kind {
		case model.KindFact:
			view.Answer = res.Answer
		case model.KindSummary:
			view.Sources = res.Sources
		default:
			view.Miss = NotFoundMessage
		}
		views = append(views, view)
	}

	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, views); err != nil {
		return 0, err
	}
	return w.output.Write([]byte(sb.String()))
}
