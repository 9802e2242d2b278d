package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup removes script/style blocks and all remaining tags from HTML
// content and collapses whitespace, yielding plain text.
//
// It is tolerant of malformed markup and never fails: the parser repairs
// what it can, and a hard parse error degrades to the whitespace-collapsed
// input. Stripping is idempotent; plain text passes through unchanged apart
// from whitespace collapsing. Parsing decodes entity references, so text
// that decodes to markup (e.g. "&lt;script&gt;") is stripped on a further
// pass; the result never contains re-parseable markup.
func StripMarkup(content string) string {
	out := stripOnce(content)
	for {
		// Each changing pass decodes or removes something, so the string
		// strictly shrinks and the loop terminates.
		next := stripOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

// stripOnce runs a single parse-and-extract pass.
func stripOnce(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return collapseWhitespace(content)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return collapseWhitespace(b.String())
}

// collapseWhitespace reduces all whitespace runs to single spaces and trims
// the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
