package ktp

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// SimilarityThreshold is the minimum ratio for a token to count as a label token.
const SimilarityThreshold = 0.72

// similarity is the Ratcliff/Obershelp ratio of a and b, taken in both
// argument orders so the result does not depend on which side is the label.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return max(ratio(a, b), ratio(b, a))
}

func ratio(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

func similar(a, b string) bool {
	return similarity(a, b) >= SimilarityThreshold
}

// matchLabel finds label (a sequence of label tokens) inside the cleaned
// tokens of a line, in order and greedily. It returns the index of the first
// token after the last matched label token.
func matchLabel(clean []string, label []string) (int, bool) {
	pos := 0
	for _, part := range label {
		want := cleanToken(part)
		matched := false
		for i := pos; i < len(clean); i++ {
			if similar(clean[i], want) {
				pos = i + 1
				matched = true
				break
			}
		}
		if !matched {
			return 0, false
		}
	}
	return pos, true
}

// matchAny returns the end position of the first variant that matches.
func matchAny(clean []string, variants [][]string) (int, bool) {
	for _, v := range variants {
		if end, ok := matchLabel(clean, v); ok {
			return end, true
		}
	}
	return 0, false
}
