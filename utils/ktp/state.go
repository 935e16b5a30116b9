package ktp

import (
	"maps"
	"strings"
)

// LookaheadWindow is how many lines after its label a pending field may
// still be resolved.
const LookaheadWindow = 6

type pendingField struct {
	field string
	since int
}

// State is the per-document extraction state. It is created by Scan and
// never shared between documents.
type State struct {
	tmpl         *Template
	values       map[string]string
	pending      []pendingField
	expired      []string
	provinceLine int
}

func newState(tmpl *Template) *State {
	return &State{
		tmpl:         tmpl,
		values:       make(map[string]string),
		provinceLine: -1,
	}
}

// Value returns the stored value of field.
func (st *State) Value(field string) (string, bool) {
	v, ok := st.values[field]
	return v, ok
}

// Values returns a copy of every stored value.
func (st *State) Values() map[string]string {
	return maps.Clone(st.values)
}

// Pending lists fields whose label was seen but whose value is still
// being looked for, in enqueue order.
func (st *State) Pending() []string {
	out := make([]string, len(st.pending))
	for i, p := range st.pending {
		out[i] = p.field
	}
	return out
}

// Expired lists fields whose lookahead window ran out before a value was found.
func (st *State) Expired() []string {
	return append([]string(nil), st.expired...)
}

func (st *State) isPending(field string) bool {
	for _, p := range st.pending {
		if p.field == field {
			return true
		}
	}
	return false
}

func (st *State) enqueue(field string, line int) {
	if _, stored := st.values[field]; stored || st.isPending(field) {
		return
	}
	st.expired = remove(st.expired, field)
	st.pending = append(st.pending, pendingField{field: field, since: line})
}

func (st *State) dequeue(field string) {
	for i, p := range st.pending {
		if p.field == field {
			st.pending = append(st.pending[:i], st.pending[i+1:]...)
			return
		}
	}
}

// expire moves every pending field whose window closed before line into
// the expired set.
func (st *State) expire(line int) {
	kept := st.pending[:0]
	for _, p := range st.pending {
		if line-p.since > LookaheadWindow {
			st.expired = append(st.expired, p.field)
			continue
		}
		kept = append(kept, p)
	}
	st.pending = kept
}

// store records value for spec's field, subject to the replace policy, and
// takes the field off the pending queue. It reports whether the stored
// value changed.
func (st *State) store(spec *FieldSpec, value string) bool {
	v := collapseWhitespace(value)
	if v == "" {
		return false
	}
	if hasLetter(v) {
		v = strings.ToUpper(v)
	}
	changed := false
	existing, ok := st.values[spec.Field]
	if !ok || shouldReplace(spec, existing, v, st) {
		changed = existing != v
		st.values[spec.Field] = v
	}
	st.dequeue(spec.Field)
	return changed
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
