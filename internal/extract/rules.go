package extract

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule pairs an intent trigger with an extraction function. A rule fires
// only for queries its trigger recognizes; extraction runs over cleaned
// page text and reports whether it found an answer.
type Rule struct {
	// Name identifies the rule in logs.
	Name string

	// Trigger reports whether the rule applies to the query.
	Trigger func(query string) bool

	// Extract attempts to pull a precise answer from cleaned page text.
	// pageURL is the source URL, available for URL-derived heuristics.
	Extract func(query, pageURL, text string) (string, bool)
}

// Rules is an ordered precise-answer rule table. New intents are added as
// new (trigger, extract) pairs; this is deliberately a narrow rule table,
// not a general NLP pipeline.
type Rules struct {
	rules []Rule
}

// NewRules creates a rule table with the given rules, in order.
func NewRules(rules ...Rule) *Rules {
	return &Rules{rules: rules}
}

// DefaultRules returns the built-in rule table.
func DefaultRules() *Rules {
	return NewRules(officeHolderRule())
}

// Add appends a rule to the table. Built-in rules keep priority over
// appended ones.
func (r *Rules) Add(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Match returns the first rule whose trigger fires for the query.
func (r *Rules) Match(query string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.Trigger(query) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Len returns the number of rules in the table.
func (r *Rules) Len() int {
	return len(r.rules)
}

// KeywordRule builds a rule from trigger keywords and an answer pattern.
// The rule fires when any keyword appears in the query (case-insensitive);
// the pattern's first capture group is the answer. Used for rules loaded
// from the config file.
func KeywordRule(name string, keywords []string, pattern *regexp.Regexp) Rule {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	return Rule{
		Name: name,
		Trigger: func(query string) bool {
			q := strings.ToLower(query)
			for _, kw := range lowered {
				if strings.Contains(q, kw) {
					return true
				}
			}
			return false
		},
		Extract: func(_, _, text string) (string, bool) {
			m := pattern.FindStringSubmatch(text)
			if len(m) < 2 {
				return "", false
			}
			answer := strings.TrimSpace(m[1])
			return answer, answer != ""
		},
	}
}

// officeKeywords trigger the office-holder rule.
var officeKeywords = []string{
	"prime minister",
	"president of",
	"chancellor of",
	"premier of",
	"governor of",
	"mayor of",
	"chief minister",
}

// incumbentPattern matches the "Incumbent <Name> since <date>" phrasing
// common on office-holder encyclopedia pages.
var incumbentPattern = regexp.MustCompile(`\bIncumbent\s+(.{2,60}?)\s+since\b`)

// officeHolderRule extracts the current holder of a political office.
// It first looks for "Incumbent <Name> since" phrasing in the page text;
// when the page is an encyclopedia entry whose terminal path segment looks
// like a 2-3 word proper name, that name is used as a fallback.
func officeHolderRule() Rule {
	return Rule{
		Name: "office-holder",
		Trigger: func(query string) bool {
			q := strings.ToLower(query)
			for _, kw := range officeKeywords {
				if strings.Contains(q, kw) {
					return true
				}
			}
			return false
		},
		Extract: func(_, pageURL, text string) (string, bool) {
			if m := incumbentPattern.FindStringSubmatch(text); len(m) == 2 {
				name := strings.TrimSpace(m[1])
				if looksLikeProperName(strings.Fields(name), 1, 4) {
					return name, true
				}
			}
			return nameFromEncyclopediaURL(pageURL)
		},
	}
}

// titleCaser normalizes shouting segments ("NARENDRA") to title case.
var titleCaser = cases.Title(language.English)

// nameFromEncyclopediaURL derives a person name from an encyclopedia
// article URL. The URL must use the conventional /wiki/<Title> layout and
// the terminal segment must look like a 2-3 word proper name.
func nameFromEncyclopediaURL(pageURL string) (string, bool) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}

	path := strings.Trim(u.Path, "/")
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] != "wiki" {
		return "", false
	}

	terminal, err := url.PathUnescape(segments[len(segments)-1])
	if err != nil {
		terminal = segments[len(segments)-1]
	}

	words := strings.FieldsFunc(terminal, func(r rune) bool {
		return r == '_' || r == '-'
	})
	if !looksLikeProperName(words, 2, 3) {
		return "", false
	}

	for i, w := range words {
		if w == strings.ToUpper(w) && len(w) > 1 {
			words[i] = titleCaser.String(strings.ToLower(w))
		}
	}
	return strings.Join(words, " "), true
}

// looksLikeProperName reports whether words form a plausible proper name:
// between minWords and maxWords words, each starting with an uppercase
// letter.
func looksLikeProperName(words []string, minWords, maxWords int) bool {
	if len(words) < minWords || len(words) > maxWords {
		return false
	}
	for _, w := range words {
		if w == "" || !isUpperByte(w[0]) {
			return false
		}
	}
	return true
}
