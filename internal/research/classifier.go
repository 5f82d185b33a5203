// Package research decides whether a user request needs a grounded web search first.
package research

import "strings"

// Classifier decides whether text needs external research.
type Classifier interface {
	NeedsResearch(text string) bool
}

// DefaultKeywords trigger research when any appears in the request.
var DefaultKeywords = []string{
	"research",
	"search",
	"find",
	"documentation",
	"info",
	"who is",
	"what is",
}

// KeywordClassifier matches lowercase substrings. It is a heuristic:
// "findings" or "infinite" also match, and paraphrased questions don't.
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier builds a classifier over keywords, or DefaultKeywords when empty.
func NewKeywordClassifier(keywords ...string) *KeywordClassifier {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}
	return &KeywordClassifier{keywords: normalized}
}

// NeedsResearch reports whether text contains any keyword, ignoring case.
func (c *KeywordClassifier) NeedsResearch(text string) bool {
	q := strings.ToLower(text)
	for _, k := range c.keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// Func adapts a function to Classifier.
type Func func(text string) bool

// NeedsResearch calls f.
func (f Func) NeedsResearch(text string) bool {
	return f(text)
}
