package ktp

import (
	"regexp"
	"strings"
)

var (
	birthTextFilter = regexp.MustCompile(`[^A-Z0-9,\s-]`)
	birthText       = regexp.MustCompile(`([A-Z\s]{3,}),\s*(\d{2}-\d{2}-\d{4})`)
)

// repair fills fields the forward pass missed, using the whole document.
func (sc *scanner) repair(text string) {
	sc.repairCity()
	sc.repairAddress()
	sc.repairBirth(text)
}

// repairCity takes the first plain line after the province as the city.
func (sc *scanner) repairCity() {
	spec, ok := sc.tmpl.Field(FieldCity)
	if !ok || sc.st.provinceLine < 0 {
		return
	}
	if _, ok := sc.st.values[FieldProvince]; !ok {
		return
	}
	if _, ok := sc.st.values[FieldCity]; ok {
		return
	}
	for _, line := range sc.lines[sc.st.provinceLine+1:] {
		if hasDigit(line) || strings.ContainsAny(line, ":=") || len(cleanToken(line)) < 3 {
			continue
		}
		sc.st.store(spec, line)
		return
	}
}

// repairAddress takes the line above the first RT/RW line as the address.
func (sc *scanner) repairAddress() {
	spec, ok := sc.tmpl.Field(FieldAddress)
	if !ok {
		return
	}
	if _, ok := sc.st.values[FieldAddress]; ok {
		return
	}
	for idx := 1; idx < len(sc.lines); idx++ {
		u := strings.ToUpper(sc.lines[idx])
		if !strings.Contains(u, "RT") || !strings.Contains(u, "RW") {
			continue
		}
		if prev := sc.lines[idx-1]; !strings.ContainsAny(prev, ":=") {
			sc.st.store(spec, prev)
		}
		return
	}
}

// repairBirth searches the whole text for "PLACE, DD-MM-YYYY".
func (sc *scanner) repairBirth(text string) {
	placeSpec, hasPlace := sc.tmpl.Field(FieldBirthPlace)
	dateSpec, hasDate := sc.tmpl.Field(FieldBirthDate)
	if !hasPlace || !hasDate {
		return
	}
	_, placeStored := sc.st.values[FieldBirthPlace]
	_, dateStored := sc.st.values[FieldBirthDate]
	if placeStored && dateStored {
		return
	}
	m := birthText.FindStringSubmatch(birthTextFilter.ReplaceAllString(strings.ToUpper(text), ""))
	if m == nil {
		return
	}
	place := strings.TrimSpace(m[1])
	if strings.Contains(place, "TEMPAT") {
		place = lastWord(place)
	}
	sc.st.store(placeSpec, place)
	sc.st.store(dateSpec, m[2])
}
