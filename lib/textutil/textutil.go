package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeQuery collapses any run of whitespace into a single space
// and trims the ends. The result may be empty.
func NormalizeQuery(raw string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(raw, " "))
}

// MatchTitle reports whether title contains query as a
// case-insensitive substring.
func MatchTitle(title, query string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}
