package aliases

import (
	"slices"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultThreshold is the ratio a pair must exceed to count as a spelling variant.
const DefaultThreshold = 0.8

// Ratio returns the similarity of a and b in [0, 1]: twice the number of runes in the
// longest matching blocks divided by the total rune count.
//
// Two empty strings have a ratio of 1.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// runes splits s into one element per code point for the sequence matcher.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Match describes why two names were or were not judged similar.
type Match struct {
	Similar bool
	Ratio   float64
	// Reordered is set when the names only matched as permutations of the same words.
	Reordered bool
}

// Compare evaluates the similarity of s1 and s2 against threshold.
func Compare(s1, s2 string, threshold float64) Match {
	n1, n2 := Normalize(s1), Normalize(s2)
	if n1 == "" || n2 == "" {
		return Match{}
	}

	ratio := Ratio(n1, n2)
	if ratio > threshold {
		return Match{Similar: true, Ratio: ratio}
	}

	t1, t2 := sortedTokens(n1), sortedTokens(n2)
	if len(t1) > 0 && slices.Equal(t1, t2) {
		return Match{Similar: true, Ratio: ratio, Reordered: true}
	}

	return Match{Ratio: ratio}
}

// AreSimilar reports whether s1 and s2 are near-duplicates at [DefaultThreshold].
func AreSimilar(s1, s2 string) bool {
	return Compare(s1, s2, DefaultThreshold).Similar
}
