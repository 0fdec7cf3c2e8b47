package htmlutil

import (
	"html"
	"regexp"
	"strings"
)

var (
	// tagPattern matches any markup tag, including comments and self-closing tags.
	tagPattern = regexp.MustCompile(`<[^>]+>`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// StripTags replaces every markup tag with a space, decodes character
// entities, collapses runs of whitespace, and trims the result.
func StripTags(markup string) string {
	if markup == "" {
		return ""
	}
	text := tagPattern.ReplaceAllString(markup, " ")
	text = html.UnescapeString(text)
	text = spaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Truncate cuts s to at most n characters without splitting a multi-byte rune.
func Truncate(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
