// Package similarity scores how close two short strings are, on a normalized edit-distance scale.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Distance returns the Levenshtein distance between a and b after case-folding and trimming.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(normalize(a), normalize(b))
}

// Score returns a similarity in [0,1] where 1 means the strings are equal after case-folding and trimming.
// It is (maxLen - distance) / maxLen with lengths counted in runes.
func Score(a, b string) float64 {
	s1, s2 := normalize(a), normalize(b)
	if s1 == s2 {
		return 1
	}

	maxLen := max(utf8.RuneCountInString(s1), utf8.RuneCountInString(s2))
	if maxLen == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(s1, s2)
	return float64(maxLen-dist) / float64(maxLen)
}
