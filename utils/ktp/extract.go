package ktp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// valueAfter joins the raw tokens from end onward, skipping leading
// delimiter tokens, and trims separator characters.
func valueAfter(tokens lineTokens, end int) (string, bool) {
	rest := dropDelimiters(tokens.raw[end:])
	value := strings.Trim(strings.Join(rest, " "), " :=-")
	return value, value != ""
}

// extractAfter returns the text following label on line.
func extractAfter(line string, label []string) (string, bool) {
	tokens := tokenize(line)
	end, ok := matchLabel(tokens.clean, label)
	if !ok {
		return "", false
	}
	return valueAfter(tokens, end)
}

func dropDelimiters(tokens []string) []string {
	for len(tokens) > 0 && isDelimiter(tokens[0]) {
		tokens = tokens[1:]
	}
	return tokens
}

func isDelimiter(tok string) bool {
	switch tok {
	case ":", "=", "-", ".", "/":
		return true
	}
	if utf8.RuneCountInString(tok) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tok)
	return !unicode.IsLetter(r)
}
