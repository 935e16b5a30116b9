package ktp

import (
	"strings"

	"github.com/candrapwr/information-extraction/utils"
)

// ReplacePolicy decides whether candidate may overwrite an existing,
// plausible value. It is consulted only after the generic rules in
// shouldReplace have not decided.
type ReplacePolicy func(existing, candidate string, st *State) bool

var areaTerms = []string{"PROVINSI", "KOTA", "KABUPATEN", "KOTAMADYA"}

func shouldReplace(spec *FieldSpec, existing, candidate string, st *State) bool {
	if !utils.IsPresent(existing) {
		return true
	}
	if existing == candidate {
		return false
	}
	if containsBlockKeyword(existing) {
		return true
	}
	if spec.Replace != nil {
		return spec.Replace(existing, candidate, st)
	}
	return false
}

func replaceName(existing, candidate string, st *State) bool {
	if containsAny(existing, areaTerms) && !containsAny(candidate, areaTerms) {
		return true
	}
	if len(strings.Fields(candidate)) >= 2 && len(strings.Fields(existing)) <= 1 {
		return true
	}
	city, ok := st.values[FieldCity]
	return ok && city != "" && existing == city && candidate != city
}

func replaceRegion(existing, candidate string, _ *State) bool {
	return hasStreetToken(existing) && !hasStreetToken(candidate)
}

func replaceAddress(existing, candidate string, _ *State) bool {
	return !hasDigit(existing) && hasDigit(candidate)
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
