// Package slug derives URL-safe post identifiers from titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxLength is the upper bound on generated slug length.
const MaxLength = 45

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// Generate turns a post title into its slug. The transform is total and
// deterministic: diacritics are stripped to their base letters, everything
// outside [a-z0-9], whitespace and hyphens is dropped, words are re-joined
// with single hyphens and the result is capped at MaxLength characters.
// An empty title yields an empty slug.
func Generate(title string) string {
	str := strings.ToLower(removeDiacritics(title))

	str = disallowed.ReplaceAllString(str, "")
	str = strings.TrimSpace(spaceRun.ReplaceAllString(str, " "))

	// Hyphens survive the character filter above but only act as word
	// separators in the final output, so drop any the title carried.
	str = strings.ReplaceAll(str, "-", "")
	str = strings.Join(strings.Fields(str), " ")

	if len(str) > MaxLength {
		str = str[:MaxLength]
	}
	str = strings.TrimSpace(str)

	return strings.ReplaceAll(str, " ", "-")
}

// removeDiacritics decomposes to NFD, drops combining marks and recomposes
// to NFC, turning e.g. "é" into "e".
func removeDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}
