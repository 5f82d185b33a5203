package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThinkingBudget(t *testing.T) {
	cases := map[string]int{
		"gemini-2.5-pro":        32768,
		"gemini-3-pro-preview":  32768,
		"gemini-2.5-flash":      24576,
		"gemini-3-flash":        24576,
		"gemini-2.0-flash":      0,
		"gemini-1.5-flash-8b":   0,
		"gemini-2.5-flash-lite": 24576,
		"some-other-model":      0,
		"gemini-1.5-flash-003":  0,
		"gemini-2.0-flash-0325": 0,
		"gemini-3.1-flash":      24576,
		"models/gemini-3-flash": 24576,
		"":                      0,
	}
	for model, want := range cases {
		require.Equal(t, want, ThinkingBudget(model), model)
	}
}
