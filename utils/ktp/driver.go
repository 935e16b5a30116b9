package ktp

import (
	"regexp"
	"strings"

	"github.com/candrapwr/information-extraction/utils"
)

// nameLookaheadLines is how many lines after an NIK label are searched for
// the holder's name. It is deliberately shorter than LookaheadWindow and
// applies whether or not the NIK line carried a number: a name more than
// three lines below the NIK is left to the NAMA label.
const nameLookaheadLines = 3

var (
	genderText = regexp.MustCompile(`JENIS\s*KELAMIN[^A-Z0-9]+([A-Z]+)`)
	placeDate  = regexp.MustCompile(`([A-Z\s]+),\s*(\d{2}-\d{2}-\d{4})`)
)

type scanner struct {
	tmpl  *Template
	lines []string
	st    *State
}

// Scan runs the heuristic extraction over OCR text and returns the raw
// state, including fields still pending or expired.
func Scan(text string, tmpl *Template) *State {
	if tmpl == nil {
		tmpl = KTP
	}
	sc := &scanner{tmpl: tmpl, lines: splitLines(text), st: newState(tmpl)}
	for idx, line := range sc.lines {
		sc.resolvePending(idx, line)
		sc.matchLabels(idx, line)
		sc.recognize(line)
		sc.reconsiderName(line)
	}
	sc.repair(text)
	return sc.st
}

// Extract runs Scan and projects the state onto the template's fields.
func Extract(text string, tmpl *Template) utils.Result {
	if tmpl == nil {
		tmpl = KTP
	}
	return utils.NormalizeStrings(Scan(text, tmpl).values, tmpl.Keys())
}

func (sc *scanner) resolvePending(idx int, line string) {
	sc.st.expire(idx)
	for _, p := range append([]pendingField(nil), sc.st.pending...) {
		spec, ok := sc.tmpl.Field(p.field)
		if !ok {
			continue
		}
		v, ok := sc.tmpl.candidate(spec, line)
		if !ok {
			continue
		}
		if spec.Field == FieldKecamatan && sc.st.values[FieldKelurahanDesa] == v {
			continue
		}
		sc.st.store(spec, v)
	}
}

func (sc *scanner) matchLabels(idx int, line string) {
	tokens := tokenize(line)
	for _, spec := range sc.tmpl.Fields {
		end, ok := matchAny(tokens.clean, spec.Variants)
		if !ok {
			continue
		}
		value, hasValue := valueAfter(tokens, end)
		stored := false
		if hasValue {
			if v, ok := spec.Validate(strings.ToUpper(value)); ok {
				sc.st.store(spec, v)
				stored = true
			}
		}
		if !stored && spec.Fallback != nil {
			if v, ok := spec.Fallback(line, value); ok {
				sc.st.store(spec, v)
				stored = true
			}
		}
		if !stored {
			sc.st.enqueue(spec.Field, idx)
		}
		if spec.onLabel != nil {
			spec.onLabel(sc, idx)
		}
	}
}

// nameLookahead adopts the first all-uppercase, digit-free line among the
// next few lines as the name when none is stored yet.
func (sc *scanner) nameLookahead(idx int) {
	if _, ok := sc.st.values[FieldName]; ok {
		return
	}
	spec, ok := sc.tmpl.Field(FieldName)
	if !ok {
		return
	}
	for j := idx + 1; j <= idx+nameLookaheadLines && j < len(sc.lines); j++ {
		c := strings.TrimSpace(strings.TrimLeft(sc.lines[j], ":= "))
		if c == "" || c != strings.ToUpper(c) || hasDigit(c) || !hasLetter(c) {
			continue
		}
		if sc.tmpl.isProbableLabel(c) {
			continue
		}
		sc.st.store(spec, c)
		return
	}
}

// recognize runs the recognizers that do not depend on a label match.
func (sc *scanner) recognize(line string) {
	upper := upperLine(line)

	if spec, ok := sc.tmpl.Field(FieldReligion); ok {
		if _, stored := sc.st.values[FieldReligion]; !stored {
			compact := lettersOnly(upper)
			for _, r := range religions {
				if compact == r {
					sc.st.store(spec, r)
					break
				}
			}
		}
	}

	if spec, ok := sc.tmpl.Field(FieldGender); ok {
		if m := genderText.FindStringSubmatch(upper); m != nil {
			if v, ok := spec.Validate(m[1]); ok {
				sc.st.store(spec, v)
			}
		}
	}

	if m := placeDate.FindStringSubmatch(upper); m != nil {
		if spec, ok := sc.tmpl.Field(FieldBirthPlace); ok {
			if v, ok := spec.Validate(m[1]); ok {
				sc.st.store(spec, v)
			}
		}
		if spec, ok := sc.tmpl.Field(FieldBirthDate); ok {
			sc.st.store(spec, m[2])
		}
	}
}

// reconsiderName looks for a better name while the stored one is the
// city or label text.
func (sc *scanner) reconsiderName(line string) {
	existing, ok := sc.st.values[FieldName]
	if !ok {
		return
	}
	city, hasCity := sc.st.values[FieldCity]
	if !(hasCity && existing == city) && !containsBlockKeyword(existing) {
		return
	}
	spec, ok := sc.tmpl.Field(FieldName)
	if !ok {
		return
	}
	if v, ok := sc.tmpl.candidate(spec, line); ok && v != existing {
		sc.st.store(spec, v)
	}
}
