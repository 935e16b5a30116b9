package ktp

import (
	"regexp"
	"strings"
)

// blockKeywords are administrative label words. A candidate value carrying
// one of them is label text, not a value.
var blockKeywords = []string{
	"PROVINSI", "KOTA", "KABUPATEN", "KOTAMADYA", "NIK", "NAMA", "TEMPAT",
	"TGL", "LAHIR", "JENIS", "KELAMIN", "GOL", "DARAH", "ALAMAT", "RT", "RW",
	"KELDESA", "KEL", "DESA", "KECAMATAN", "AGAMA", "STATUS", "PERKAWINAN",
	"PEKERJAAN", "KEWARGANEGARAAN", "BERLAKU", "PEREMPUAN", "WANITA", "PRIA",
	"LAKI", "POKERJAAN",
}

// religions is the closed religion vocabulary, in matching order.
var religions = []string{
	"ISLAM", "KRISTEN", "PROTESTAN", "KATOLIK", "HINDU", "BUDDHA", "KONGHUCU", "KEPERCAYAAN",
}

var streetTokens = map[string]bool{"JL": true, "JLN": true, "JALAN": true}

var (
	sixteenDigits = regexp.MustCompile(`\d{16}`)
	digitRun      = regexp.MustCompile(`\d{4,}`)
	genderToken   = regexp.MustCompile(`LAKI[-\s]*LAKI|PEREMPUAN|PRIA|WANITA|LAKI|L|P`)
	rtRwPair      = regexp.MustCompile(`(\d{1,3})\s*[/|-]\s*(\d{1,3})`)
	shortNumber   = regexp.MustCompile(`\d{1,3}`)
	datePattern   = regexp.MustCompile(`\d{2}-\d{2}-\d{4}`)
	bloodType     = regexp.MustCompile(`^(AB|A|B|O|0)\s*([+-]?)(?:\s|$)`)
	leadingNonAZ  = regexp.MustCompile(`^[^A-Z]+`)
)

// gluedKeywordLen is the shortest keyword still recognised when OCR glued
// it to the following word ("ALAMATJL", "PEKERJAANKARYAWAN"). Shorter
// keywords only match a whole token, so "NAMABUDI" is not caught.
const gluedKeywordLen = 5

// containsBlockKeyword reports whether any whitespace token of s, reduced to
// A-Z, is a block keyword or starts with one of at least gluedKeywordLen
// letters. Keywords are never matched inside a token: RT, NIK and KEL occur
// in ordinary names and places (JAKARTA, SUKARTONO, MONIKA, MIKEL).
func containsBlockKeyword(s string) bool {
	for _, tok := range strings.Fields(strings.ToUpper(s)) {
		tok = lettersOnly(tok)
		if tok == "" {
			continue
		}
		for _, kw := range blockKeywords {
			if tok == kw || (len(kw) >= gluedKeywordLen && strings.HasPrefix(tok, kw)) {
				return true
			}
		}
	}
	return false
}

func hasStreetToken(s string) bool {
	for _, tok := range strings.Fields(s) {
		if streetTokens[lettersOnly(tok)] {
			return true
		}
	}
	return false
}

func validateNIK(s string) (string, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if m := sixteenDigits.FindString(digits); m != "" {
		return m, true
	}
	return longestRun(digitRun.FindAllString(s, -1))
}

func longestRun(runs []string) (string, bool) {
	best := ""
	for _, r := range runs {
		if len(r) > len(best) {
			best = r
		}
	}
	return best, best != ""
}

func validateName(s string) (string, bool) {
	c := strings.TrimSpace(leadingNonAZ.ReplaceAllString(strings.ToUpper(s), ""))
	if c == "" || hasDigit(c) || len(c) < 3 || containsBlockKeyword(c) {
		return "", false
	}
	return c, true
}

func validateGender(s string) (string, bool) {
	tok := genderToken.FindString(strings.ToUpper(s))
	switch {
	case tok == "":
		return "", false
	case tok == "L", strings.HasPrefix(tok, "LAKI"):
		return "LAKI-LAKI", true
	case tok == "P":
		return "PEREMPUAN", true
	}
	return tok, true
}

func validateAddress(s string) (string, bool) {
	s = strings.TrimSpace(s)
	u := strings.ToUpper(s)
	if s == "" || containsBlockKeyword(u) {
		return "", false
	}
	street := strings.HasPrefix(u, "JL") || strings.HasPrefix(u, "JALAN")
	if street || hasDigit(s) || len(s) >= 10 {
		return s, true
	}
	return "", false
}

func validateRTRW(s string) (string, bool) {
	m := rtRwPair.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1] + "/" + m[2], true
}

// validateRegion accepts kelurahan/desa and kecamatan names.
func validateRegion(s string) (string, bool) {
	c := lettersAndSpaces(s)
	if c == "" || hasStreetToken(c) || containsBlockKeyword(c) {
		return "", false
	}
	if len(c) < 3 || len(c) > 15 || len(strings.Fields(c)) > 3 {
		return "", false
	}
	return c, true
}

func validateReligion(s string) (string, bool) {
	tok := lettersOnly(s)
	if tok == "" {
		return "", false
	}
	for _, r := range religions {
		if strings.Contains(tok, r) {
			return r, true
		}
	}
	return "", false
}

func validateMarital(s string) (string, bool) {
	c := lettersAndSpaces(s)
	if c == "" || containsBlockKeyword(c) || hasDigit(c) {
		return "", false
	}
	return c, true
}

// validateArea accepts province and city names.
func validateArea(s string) (string, bool) {
	c := lettersAndSpaces(s)
	if c == "" || hasDigit(s) || containsBlockKeyword(c) {
		return "", false
	}
	return c, true
}

func validateBirthPlace(s string) (string, bool) {
	place := strings.ToUpper(s)
	if i := strings.Index(place, ","); i >= 0 {
		place = place[:i]
	} else if loc := datePattern.FindStringIndex(place); loc != nil {
		place = place[:loc[0]]
	}
	place = lettersAndSpaces(place)
	if strings.Contains(place, "TEMPAT") {
		place = lastWord(place)
	}
	if len(place) < 3 || containsBlockKeyword(place) {
		return "", false
	}
	return place, true
}

func validateBirthDate(s string) (string, bool) {
	d := datePattern.FindString(s)
	return d, d != ""
}

func validateBloodType(s string) (string, bool) {
	m := bloodType.FindStringSubmatch(strings.TrimSpace(strings.ToUpper(s)))
	if m == nil {
		return "", false
	}
	group := m[1]
	if group == "0" {
		group = "O"
	}
	return group + m[2], true
}

func validateOccupation(s string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if isUpperLetter(r) || r == ' ' || r == '/' {
			b.WriteRune(r)
		}
	}
	c := strings.Trim(collapseWhitespace(b.String()), " /")
	if len(c) < 3 || containsBlockKeyword(c) {
		return "", false
	}
	return c, true
}

func validateNationality(s string) (string, bool) {
	tok := lettersOnly(s)
	switch {
	case strings.Contains(tok, "WNI"):
		return "WNI", true
	case strings.Contains(tok, "WNA"):
		return "WNA", true
	}
	return "", false
}

func validateValidUntil(s string) (string, bool) {
	u := strings.ToUpper(s)
	if strings.Contains(u, "SEUMUR") || strings.Contains(u, "HIDUP") {
		return "SEUMUR HIDUP", true
	}
	return validateBirthDate(u)
}

func lastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}
