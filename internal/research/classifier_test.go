package research

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeywordClassifier_Defaults(t *testing.T) {
	c := NewKeywordClassifier()

	hits := []string{
		"What is the capital of France?",
		"Please RESEARCH websocket libraries",
		"search for the latest release",
		"Can you find me a parser?",
		"Link the documentation",
		"Any info on Go 1.25?",
		"who is Rob Pike",
	}
	for _, q := range hits {
		require.True(t, c.NeedsResearch(q), q)
	}

	misses := []string{
		"Write a function that adds two numbers",
		"Refactor utils.ts",
		"",
	}
	for _, q := range misses {
		require.False(t, c.NeedsResearch(q), q)
	}
}

func TestKeywordClassifier_Custom(t *testing.T) {
	c := NewKeywordClassifier("  Latest ", "")
	require.True(t, c.NeedsResearch("what's the latest?"))
	require.False(t, c.NeedsResearch("what is this"))
}

func TestFunc(t *testing.T) {
	var c Classifier = Func(func(string) bool { return true })
	require.True(t, c.NeedsResearch("anything"))
}
