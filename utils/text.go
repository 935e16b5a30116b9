package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ocrReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	" ", " ",
	"–", "-",
	"—", "-",
	"−", "-",
	"：", ":",
)

// NormalizeOCRText folds OCR output into plain ASCII-friendly text:
// diacritics are dropped, typographic dashes become '-', and trailing
// whitespace is removed from every line.
func NormalizeOCRText(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = ocrReplacer.Replace(folded)

	lines := strings.Split(folded, "\n")
	for i := range lines {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}
