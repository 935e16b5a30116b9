package ktp

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace replaces whitespace runs with a single space and trims.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// cleanToken uppercases tok and keeps only A-Z and 0-9.
func cleanToken(tok string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(tok) {
		if isUpperAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lineTokens holds the whitespace tokens of a line and their cleaned forms,
// index-aligned.
type lineTokens struct {
	raw   []string
	clean []string
}

func tokenize(line string) lineTokens {
	raw := strings.Fields(line)
	clean := make([]string, len(raw))
	for i, tok := range raw {
		clean[i] = cleanToken(tok)
	}
	return lineTokens{raw: raw, clean: clean}
}

// splitLines returns the trimmed, non-empty lines of text.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isUpperAlnum(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isUpperLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// lettersAndSpaces uppercases s and drops everything except A-Z and spaces,
// collapsing the result.
func lettersAndSpaces(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if isUpperLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return collapseWhitespace(b.String())
}

// lettersOnly uppercases s and keeps only A-Z.
func lettersOnly(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if isUpperLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var upperLineStrip = regexp.MustCompile(`[^A-Z0-9/,:=\-\s]`)

// upperLine is the uppercased line restricted to the characters the
// auxiliary recognizers look at.
func upperLine(line string) string {
	return upperLineStrip.ReplaceAllString(strings.ToUpper(line), "")
}
