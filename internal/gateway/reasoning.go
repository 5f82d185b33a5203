package gateway

import "strings"

const (
	proThinkingBudget   = 32768
	flashThinkingBudget = 24576
)

// ThinkingBudget returns the reasoning token budget for model, or 0 when the
// model has no extended reasoning tier.
func ThinkingBudget(model string) int {
	id := strings.ToLower(model)
	switch {
	case strings.Contains(id, "pro"):
		return proThinkingBudget
	case strings.Contains(id, "flash") && reasoningGeneration(id):
		return flashThinkingBudget
	}
	return 0
}

// reasoningGeneration reports whether a segment of id names generation 2.5
// or 3.x, as in "gemini-2.5-flash" or "models/gemini-3.1-flash".
func reasoningGeneration(id string) bool {
	segments := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '/' || r == '_'
	})
	for _, seg := range segments {
		if seg == "2.5" || seg == "3" || strings.HasPrefix(seg, "3.") {
			return true
		}
	}
	return false
}
