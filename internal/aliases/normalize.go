package aliases

import (
	"slices"
	"strings"
	"unicode"
)

// Normalize returns the comparison form of s.
//
// The leading "the " is removed once, before whitespace is trimmed, so the result is not
// always a fixed point: "the the cat" normalizes to "the cat".
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "the ")

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || isSpace(r) {
			return r
		}
		return -1
	}, s)

	return strings.TrimFunc(s, isSpace)
}

// isSpace extends [unicode.IsSpace] with the ASCII separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// sortedTokens splits a normalized string on whitespace and sorts the tokens.
func sortedTokens(normalized string) []string {
	tokens := strings.FieldsFunc(normalized, isSpace)
	slices.Sort(tokens)
	return tokens
}
