package content

import (
	"regexp"
	"strings"
)

// UI chrome the chat surface mixes into copied text. Removed by literal
// substring match wherever they occur.
var chromePhrases = []string{
	"Gemini can make mistakes",
	"double-check",
	"Show drafts",
	"Copy code",
	"Use code with caution",
	"You stopped this response",
}

var (
	runsOfNewlines = regexp.MustCompile(`\n{3,}`)
	runsOfSpaces   = regexp.MustCompile(` {2,}`)
)

// Clean normalizes raw text extracted from the chat surface. It is total:
// any input, including empty or garbage text, yields a usable (possibly
// empty) string. When the TITLES: marker is present everything before its
// first occurrence is discarded.
func Clean(text string) string {
	text = strings.TrimSpace(text)

	for _, phrase := range chromePhrases {
		text = strings.ReplaceAll(text, phrase, "")
	}

	text = runsOfNewlines.ReplaceAllString(text, "\n\n")
	text = runsOfSpaces.ReplaceAllString(text, " ")

	if idx := strings.Index(text, markerTitles); idx != -1 {
		text = text[idx:]
	}

	return strings.TrimSpace(text)
}
