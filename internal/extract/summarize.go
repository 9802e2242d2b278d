package extract

import "strings"

// Ellipsis is appended to a summary when sentences were dropped.
const Ellipsis = "..."

// DefaultSentenceCount is the number of sentences kept when the caller does
// not specify a count.
const DefaultSentenceCount = 5

// Summarize returns the first maxSentences sentences of text joined by
// single spaces, with Ellipsis appended when the text was longer. Text with
// at most maxSentences sentences is returned whole, without a marker.
func Summarize(text string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = DefaultSentenceCount
	}

	sentences := SplitSentences(text)
	if len(sentences) <= maxSentences {
		return strings.Join(sentences, " ")
	}
	return strings.Join(sentences[:maxSentences], " ") + Ellipsis
}

// SplitSentences splits text on sentence boundaries: a '.' or '?' followed
// by whitespace. Boundaries directly after abbreviations and initials
// ("Dr.", "e.g.", "U.S.") are not split, so names and common Latin
// abbreviations survive intact.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i+1 < len(text); i++ {
		c := text[i]
		if (c != '.' && c != '?') || !isSpaceByte(text[i+1]) {
			continue
		}
		if endsInAbbreviation(text[start : i+1]) {
			continue
		}
		sentences = append(sentences, text[start:i+1])

		// Skip the whitespace run to the start of the next sentence.
		j := i + 1
		for j < len(text) && isSpaceByte(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// endsInAbbreviation reports whether the candidate sentence ends in an
// abbreviation or initial rather than a real boundary. Two shapes are
// recognized: dotted sequences like "e.g." or "U.S." (word, dot, word,
// terminator), and short titles like "Mr." or "Dr." (upper, lower, dot).
func endsInAbbreviation(s string) bool {
	n := len(s)
	if n >= 4 && isWordByte(s[n-4]) && s[n-3] == '.' && isWordByte(s[n-2]) {
		return true
	}
	if n >= 3 && isUpperByte(s[n-3]) && isLowerByte(s[n-2]) && s[n-1] == '.' {
		return true
	}
	return false
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordByte(c byte) bool {
	return isUpperByte(c) || isLowerByte(c) || (c >= '0' && c <= '9') || c == '_'
}

func isUpperByte(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isLowerByte(c byte) bool {
	return c >= 'a' && c <= 'z'
}
