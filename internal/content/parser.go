package content

import (
	"strconv"
	"strings"
)

// Section markers anchoring the reply grammar.
const (
	markerTitles       = "TITLES:"
	markerDescriptions = "DESCRIPTIONS:"
	markerBullets      = "BULLETS:"
)

// Minimum character counts below which a parsed item is discarded as noise,
// e.g. a stray empty template line. Boundary values are excluded.
const (
	minTitleChars  = 10
	minDescChars   = 20
	minBulletChars = 10
)

// ParseSections splits cleaned reply text into the three labeled sections and
// extracts up to the requested number of items from each. The scan never
// fails: malformed input degrades to partial or empty lists, and a recover
// guard returns whatever was accumulated if anything slips through. A missing
// TITLES: marker aborts the whole parse because there is no anchor to slice
// from; a missing later marker only empties the sections after it.
func ParseSections(text string, titleCount, descCount, bulletCount int) (titles, descriptions, bullets []string) {
	titles = []string{}
	descriptions = []string{}
	bullets = []string{}

	// Scraped page text is arbitrary input; a slip here must surface as
	// partial lists, never as a panic through the HTTP layer.
	defer func() {
		if r := recover(); r != nil {
			if titles == nil {
				titles = []string{}
			}
			if descriptions == nil {
				descriptions = []string{}
			}
			if bullets == nil {
				bullets = []string{}
			}
		}
	}()

	titlesAt := indexFold(text, markerTitles, 0)
	if titlesAt == -1 {
		return titles, descriptions, bullets
	}
	descAt := indexFold(text, markerDescriptions, 0)
	bulletsAt := indexFold(text, markerBullets, 0)

	titleSection := sliceBetween(text, titlesAt+len(markerTitles), descAt)
	descSection := ""
	if descAt != -1 {
		descSection = sliceBetween(text, descAt+len(markerDescriptions), bulletsAt)
	}
	bulletSection := ""
	if bulletsAt != -1 {
		bulletSection = sliceBetween(text, bulletsAt+len(markerBullets), -1)
	}

	titles = extractItems(titleSection, "Title", markerDescriptions, titleCount, minTitleChars)
	descriptions = extractItems(descSection, "Description", markerBullets, descCount, minDescChars)
	bullets = extractItems(bulletSection, "Bullet", "", bulletCount, minBulletChars)
	return titles, descriptions, bullets
}

// sliceBetween returns text[start:end] with both bounds clamped; end == -1
// means end of text. Inverted bounds yield an empty section rather than a
// panic, since marker order is never trusted.
func sliceBetween(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if start > len(text) {
		start = len(text)
	}
	if end < 0 || end > len(text) {
		end = len(text)
	}
	if end < start {
		return ""
	}
	return text[start:end]
}

// extractItems walks the expected labels 1..count in order. Each capture is
// bounded by the next sequential label, the next section's marker, or the end
// of the section, so one malformed item cannot corrupt the captures after it.
// An unmatched label leaves a gap and is never rescanned.
func extractItems(section, label, nextMarker string, count, minChars int) []string {
	items := []string{}

	markerAt := -1
	if nextMarker != "" {
		markerAt = indexFold(section, nextMarker, 0)
	}

	for i := 1; i <= count; i++ {
		_, bodyStart, ok := findLabel(section, label, i, 0)
		if !ok {
			continue
		}
		end := len(section)
		if next, _, ok := findLabel(section, label, i+1, bodyStart); ok && next < end {
			end = next
		}
		if markerAt >= bodyStart && markerAt < end {
			end = markerAt
		}
		item := strings.Join(strings.Fields(section[bodyStart:end]), " ")
		if len(item) > minChars {
			items = append(items, item)
		}
	}
	return items
}

// findLabel locates "<label><ws><i><ws>:" at or after from, case-insensitive.
// Whitespace runs around the number may be empty and may span newlines.
// Returns the index where the label token begins and the index just past the
// colon. All indices are positions in section itself.
func findLabel(section, label string, i, from int) (start, bodyStart int, ok bool) {
	want := strconv.Itoa(i)
	for from < len(section) {
		pos := indexFold(section, label, from)
		if pos == -1 {
			return 0, 0, false
		}

		j := skipSpace(section, pos+len(label))
		digitsStart := j
		for j < len(section) && section[j] >= '0' && section[j] <= '9' {
			j++
		}
		colon := skipSpace(section, j)
		if section[digitsStart:j] == want && colon < len(section) && section[colon] == ':' {
			return pos, colon + 1, true
		}
		from = pos + 1
	}
	return 0, 0, false
}

// indexFold returns the index of the first case-insensitive occurrence of
// needle in s at or after from, or -1. needle must be ASCII. Matching folds
// the original bytes in place instead of scanning a ToUpper/ToLower copy:
// case mapping can change the byte length of some Unicode letters, so indices
// computed in a mapped copy are not valid in s.
func indexFold(s, needle string, from int) int {
	if from < 0 {
		from = 0
	}
	n := len(needle)
	for i := from; i+n <= len(s); i++ {
		if foldEqualASCII(s[i:i+n], needle) {
			return i
		}
	}
	return -1
}

// foldEqualASCII reports whether two equal-length strings match under ASCII
// case folding. Non-ASCII bytes must match exactly.
func foldEqualASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n') {
		i++
	}
	return i
}
