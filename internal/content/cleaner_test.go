package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRemovesChromePhrases(t *testing.T) {
	raw := "TITLES:\nTitle 1: Gemini can make mistakes, double-check Great Wireless Mouse\n"
	cleaned := Clean(raw)

	assert.NotContains(t, cleaned, "Gemini can make mistakes")
	assert.NotContains(t, cleaned, "double-check")
	assert.Contains(t, cleaned, "Great Wireless Mouse")
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	cleaned := Clean("TITLES:\n\n\n\n\nTitle 1:  lots   of    space")
	assert.Equal(t, "TITLES:\n\nTitle 1: lots of space", cleaned)
}

func TestCleanSlicesFromTitlesMarker(t *testing.T) {
	cleaned := Clean("Sure! Here is your content.\nShow drafts\nTITLES:\nTitle 1: Something useful here")
	assert.True(t, strings.HasPrefix(cleaned, "TITLES:"))
}

func TestCleanIsTotal(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "", Clean("   \n\t  "))
	// No marker: text passes through normalized but unsliced.
	assert.Equal(t, "plain text without markers", Clean("  plain text without  markers  "))
}
