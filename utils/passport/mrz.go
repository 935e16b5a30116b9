package passport

import (
	"errors"
	"regexp"
	"strings"
)

// TD3LineLength is the length of each of the two passport MRZ lines.
const TD3LineLength = 44

// ErrInvalidMRZ is returned when lines do not form a TD3 zone.
var ErrInvalidMRZ = errors.New("invalid TD3 MRZ")

var mrzCharset = regexp.MustCompile(`^[A-Z0-9<]+$`)

// MRZ is a decoded TD3 machine readable zone.
type MRZ struct {
	Type           string
	Country        string
	Surname        string
	Names          string
	Number         string
	Nationality    string
	DateOfBirth    string
	Sex            string
	ExpirationDate string
	PersonalNumber string

	// Checks holds the result of every check digit, by field.
	Checks map[string]bool
}

// Valid reports whether every check digit agreed.
func (m MRZ) Valid() bool {
	for _, ok := range m.Checks {
		if !ok {
			return false
		}
	}
	return len(m.Checks) > 0
}

// Fields flattens the zone into the keys an MRZ reader reports.
func (m MRZ) Fields() map[string]string {
	return map[string]string{
		"number":          m.Number,
		"names":           m.Names,
		"surname":         m.Surname,
		"nationality":     m.Nationality,
		"date_of_birth":   m.DateOfBirth,
		"sex":             m.Sex,
		"expiration_date": m.ExpirationDate,
		"country":         m.Country,
	}
}

// ParseTD3 decodes the two lines of a passport MRZ.
// Line 1: P<CCCSURNAME<<GIVEN<NAMES<<<...
// Line 2: NUMBER###C NAT YYMMDD C S YYMMDD C PERSONAL###### C C
func ParseTD3(line1, line2 string) (MRZ, error) {
	l1, ok1 := normalizeLine(line1)
	l2, ok2 := normalizeLine(line2)
	if !ok1 || !ok2 || l1[0] != 'P' {
		return MRZ{}, ErrInvalidMRZ
	}

	m := MRZ{
		Type:           clean(l1[0:2]),
		Country:        clean(l1[2:5]),
		Number:         clean(l2[0:9]),
		Nationality:    clean(l2[10:13]),
		DateOfBirth:    l2[13:19],
		Sex:            sex(l2[20]),
		ExpirationDate: l2[21:27],
		PersonalNumber: clean(l2[28:42]),
	}
	m.Surname, m.Names = names(l1[5:])

	m.Checks = map[string]bool{
		"number":          checkDigit(l2[0:9]) == l2[9],
		"date_of_birth":   checkDigit(l2[13:19]) == l2[19],
		"expiration_date": checkDigit(l2[21:27]) == l2[27],
		"personal_number": l2[42] == '<' && strings.Trim(l2[28:42], "<") == "" || checkDigit(l2[28:42]) == l2[42],
		"composite":       checkDigit(l2[0:10]+l2[13:20]+l2[21:43]) == l2[43],
	}
	return m, nil
}

// FindMRZ locates the first pair of TD3 lines in OCR text.
func FindMRZ(text string) (MRZ, bool) {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		if l, ok := normalizeLine(line); ok {
			candidates = append(candidates, l)
		}
	}
	for i := 0; i+1 < len(candidates); i++ {
		if candidates[i][0] != 'P' {
			continue
		}
		if m, err := ParseTD3(candidates[i], candidates[i+1]); err == nil {
			return m, true
		}
	}
	return MRZ{}, false
}

// normalizeLine uppercases, drops spaces, and pads or trims a line that is
// within two characters of the TD3 length.
func normalizeLine(line string) (string, bool) {
	l := strings.ToUpper(strings.Join(strings.Fields(line), ""))
	if len(l) < TD3LineLength-2 || len(l) > TD3LineLength+2 || !mrzCharset.MatchString(l) {
		return "", false
	}
	if len(l) < TD3LineLength {
		l += strings.Repeat("<", TD3LineLength-len(l))
	}
	return l[:TD3LineLength], true
}

func names(field string) (surname, given string) {
	parts := strings.SplitN(field, "<<", 2)
	surname = clean(parts[0])
	if len(parts) == 2 {
		given = clean(parts[1])
	}
	return surname, given
}

// clean turns filler characters into single spaces.
func clean(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '<' }), " ")
}

func sex(c byte) string {
	switch c {
	case 'M', 'F':
		return string(c)
	}
	return "X"
}

// checkDigit computes the ICAO 9303 check digit of s.
func checkDigit(s string) byte {
	weights := [3]int{7, 3, 1}
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += charValue(s[i]) * weights[i%3]
	}
	return byte('0' + sum%10)
}

func charValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 0
}
