package security

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxInputLength bounds sanitized input, counted in runes so multi-byte
// text is not over-trimmed.
const maxInputLength = 1000

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize cleans raw user text: control characters are stripped, HTML
// is escaped, whitespace runs collapse to a single space, and the result
// is truncated to maxInputLength. The second return reports truncation.
func Sanitize(text string) (string, bool) {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == 0 || (unicode.IsControl(r) && r != '\n' && r != '\t') {
			continue
		}
		b.WriteRune(r)
	}

	clean := html.EscapeString(b.String())
	clean = strings.TrimSpace(whitespaceRun.ReplaceAllString(clean, " "))

	if utf8.RuneCountInString(clean) > maxInputLength {
		return string([]rune(clean)[:maxInputLength]), true
	}
	return clean, false
}

// clampRunes cuts text to at most n runes without splitting a rune.
func clampRunes(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
