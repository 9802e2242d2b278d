package extract

import "testing"

// TestStripMarkup tests tag removal, script/style dropping, and whitespace
// collapsing.
func TestStripMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain tags removed",
			input: "<html><body><p>Hello <b>world</b></p></body></html>",
			want:  "Hello world",
		},
		{
			name:  "script blocks dropped",
			input: "<html><body><script>var x = 1;</script>visible</body></html>",
			want:  "visible",
		},
		{
			name:  "style blocks dropped",
			input: "<html><head><style>body { color: red }</style></head><body>text</body></html>",
			want:  "text",
		},
		{
			name:  "noscript blocks dropped",
			input: "<body><noscript>enable js</noscript>shown</body>",
			want:  "shown",
		},
		{
			name:  "whitespace collapsed",
			input: "<p>several\n\n   words\t here</p>",
			want:  "several words here",
		},
		{
			name:  "malformed markup tolerated",
			input: "<p>unclosed <b>bold text",
			want:  "unclosed bold text",
		},
		{
			name:  "entity-encoded script is still stripped",
			input: "<p>&lt;script&gt;alert(1)&lt;/script&gt; visible</p>",
			want:  "visible",
		},
		{
			name:  "entity-encoded tags do not survive as markup",
			input: "&lt;b&gt;bold&lt;/b&gt; text",
			want:  "bold text",
		},
		{
			name:  "plain text passes through",
			input: "no markup at all",
			want:  "no markup at all",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripMarkup(tt.input); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestStripMarkupIdempotent verifies strip(strip(x)) == strip(x) for a
// variety of HTML inputs.
func TestStripMarkupIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<html><body><p>Hello <b>world</b></p></body></html>",
		"<div><script>alert(1)</script>page   text</div>",
		"plain text, no markup",
		"broken <tag <p>content</p>",
		"",
		"<ul><li>one</li><li>two</li></ul>",
		"<p>&lt;script&gt;alert(1)&lt;/script&gt; visible</p>",
		"&amp;lt;b&amp;gt;doubly encoded&amp;lt;/b&amp;gt;",
	}

	for _, input := range inputs {
		once := StripMarkup(input)
		twice := StripMarkup(once)
		if once != twice {
			t.Errorf("stripping not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
