package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NotFound is the sentinel stored for every field that could not be read.
const NotFound = "Not found"

// Result maps field identifiers to extracted values.
type Result map[string]string

// Found reports whether key holds a real value.
func (r Result) Found(key string) bool {
	v, ok := r[key]
	return ok && IsPresent(v)
}

// Count returns how many of keys hold a real value.
func (r Result) Count(keys []string) int {
	n := 0
	for _, k := range keys {
		if r.Found(k) {
			n++
		}
	}
	return n
}

// IsPresent reports whether v is neither blank nor the "Not found" sentinel.
func IsPresent(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, NotFound)
}

// NormalizeFields projects data onto keys, filling every gap with NotFound.
// Strings are trimmed; other JSON scalars are rendered with fmt.
func NormalizeFields(data map[string]any, keys []string) Result {
	out := make(Result, len(keys))
	for _, key := range keys {
		out[key] = normalizeValue(data[key])
	}
	return out
}

// NormalizeStrings is NormalizeFields for string-valued input.
func NormalizeStrings(data map[string]string, keys []string) Result {
	out := make(Result, len(keys))
	for _, key := range keys {
		v, ok := data[key]
		if !ok {
			out[key] = NotFound
			continue
		}
		out[key] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return NotFound
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	if !IsPresent(s) {
		return NotFound
	}
	return s
}

// AllPresent reports whether every key of data holds a real value.
func AllPresent(data Result, keys []string) bool {
	for _, k := range keys {
		if !data.Found(k) {
			return false
		}
	}
	return true
}
