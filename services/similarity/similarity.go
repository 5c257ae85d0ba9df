// Package similarity decides whether a free-text answer is close enough to
// the reference answer written by the teacher.
package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Threshold is the minimum sequence-match ratio for an answer to count as
// correct. Fixed on purpose; it is not per-course configurable.
const Threshold = 0.7

// Ratio returns the character-level sequence-match ratio of a and b in [0,1].
func Ratio(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// IsSimilar reports whether candidate is close enough to reference. Both are
// lowercased and trimmed before comparison. Empty input on either side fails
// closed: nothing is ever similar to an empty string.
func IsSimilar(reference, candidate string) bool {
	ref := normalize(reference)
	cand := normalize(candidate)
	if ref == "" || cand == "" {
		return false
	}
	return Ratio(ref, cand) >= Threshold
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
