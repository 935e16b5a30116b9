package ktp

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/candrapwr/information-extraction/utils"
	"gopkg.in/yaml.v3"
)

// Template names.
const (
	TemplateKTP         = "ktp"
	TemplateKTPExtended = "ktp_extended"
)

// ErrUnknownTemplate is returned for a template name with no field registry.
var ErrUnknownTemplate = errors.New("unknown template")

//go:embed templates.yaml
var defaultPatterns []byte

// Template is an ordered field registry plus optional per-field regex
// patterns that are tried before the heuristic scan.
type Template struct {
	Name     string
	Fields   []*FieldSpec
	patterns []fieldPattern
	index    map[string]*FieldSpec
	keys     []string
}

type fieldPattern struct {
	field string
	re    *regexp.Regexp
}

var builtin = map[string]func() []*FieldSpec{
	TemplateKTP:         ktpFields,
	TemplateKTPExtended: ktpExtendedFields,
}

// Built-in templates without regex patterns.
var (
	KTP         = newTemplate(TemplateKTP, ktpFields())
	KTPExtended = newTemplate(TemplateKTPExtended, ktpExtendedFields())
)

func newTemplate(name string, fields []*FieldSpec) *Template {
	t := &Template{Name: name, Fields: fields, index: make(map[string]*FieldSpec, len(fields))}
	for _, f := range fields {
		t.index[f.Field] = f
		t.keys = append(t.keys, f.Field)
	}
	sort.Strings(t.keys)
	return t
}

// Keys returns the template's field identifiers in sorted order.
func (t *Template) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Field returns the registry entry for field.
func (t *Template) Field(field string) (*FieldSpec, bool) {
	f, ok := t.index[field]
	return f, ok
}

// isProbableLabel reports whether line matches any label variant of the template.
func (t *Template) isProbableLabel(line string) bool {
	tokens := tokenize(line)
	if len(tokens.raw) == 0 {
		return false
	}
	for _, f := range t.Fields {
		if _, ok := matchAny(tokens.clean, f.Variants); ok {
			return true
		}
	}
	return false
}

// candidate validates a whole line as a value for spec, rejecting lines
// that look like labels themselves.
func (t *Template) candidate(spec *FieldSpec, line string) (string, bool) {
	s := strings.ToUpper(strings.TrimLeft(strings.TrimSpace(line), " :=-"))
	s = strings.TrimLeftFunc(s, func(r rune) bool { return !isUpperAlnum(r) })
	if s == "" || t.isProbableLabel(s) {
		return "", false
	}
	return spec.Validate(s)
}

// Parse applies the template's regex patterns first and lets the heuristic
// scan fill every field they missed.
func Parse(text string, tmpl *Template) utils.Result {
	if tmpl == nil {
		tmpl = KTP
	}
	found := make(map[string]string)
	for _, p := range tmpl.patterns {
		m := p.re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		v := m[1]
		if i := strings.IndexAny(v, "\r\n"); i >= 0 {
			v = v[:i]
		}
		if v = collapseWhitespace(v); v != "" {
			found[p.field] = strings.ToUpper(v)
		}
	}
	for field, v := range Scan(text, tmpl).values {
		if !utils.IsPresent(found[field]) {
			found[field] = v
		}
	}
	return utils.NormalizeStrings(found, tmpl.Keys())
}

// Registry holds the templates available to callers, by name.
type Registry struct {
	templates map[string]*Template
}

type patternFile struct {
	Templates map[string]struct {
		Fields map[string]string `yaml:"fields"`
	} `yaml:"templates"`
}

// DefaultRegistry returns the built-in templates with their embedded patterns.
func DefaultRegistry() *Registry {
	r, err := LoadRegistry(bytes.NewReader(defaultPatterns))
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return r
}

// LoadRegistryFile reads template patterns from a YAML file.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open templates file: %w", err)
	}
	defer f.Close()
	return LoadRegistry(f)
}

// LoadRegistry reads template patterns from YAML. Every built-in template is
// present in the result; templates absent from the document have no patterns.
func LoadRegistry(r io.Reader) (*Registry, error) {
	var doc patternFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}
	for name := range doc.Templates {
		if _, ok := builtin[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
		}
	}

	reg := &Registry{templates: make(map[string]*Template, len(builtin))}
	for name, fields := range builtin {
		t := newTemplate(name, fields())
		for _, key := range registryOrder(t) {
			expr, ok := doc.Templates[name].Fields[key]
			if !ok || strings.TrimSpace(expr) == "" {
				continue
			}
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return nil, fmt.Errorf("template %s field %s: %w", name, key, err)
			}
			t.patterns = append(t.patterns, fieldPattern{field: key, re: re})
		}
		for key := range doc.Templates[name].Fields {
			if _, ok := t.index[key]; !ok {
				return nil, fmt.Errorf("template %s: unknown field %q", name, key)
			}
		}
		reg.templates[name] = t
	}
	return reg, nil
}

func registryOrder(t *Template) []string {
	out := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		out[i] = f.Field
	}
	return out
}

// Template returns the named template; an empty name selects "ktp".
func (r *Registry) Template(name string) (*Template, error) {
	if name == "" {
		name = TemplateKTP
	}
	t, ok := r.templates[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return t, nil
}

// Names lists the registered template names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for n := range r.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
