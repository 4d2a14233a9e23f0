package fields

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ScalarField is the input bound to one known variable.
type ScalarField struct {
	Var     Variable
	Text    string
	Loaded  string // text as read from the blob
	Present bool
	Source  string // blob key the value was read from; differs from Var.Name for legacy aliases
}

// Dirty reports whether the input holds a non-blank value that differs from the blob.
func (f ScalarField) Dirty() bool {
	t := strings.TrimSpace(f.Text)
	return t != "" && t != f.Loaded
}

// ScalarForm holds one input per known variable.
type ScalarForm struct {
	Fields []ScalarField
	index  map[string]int
}

// LoadScalars fills a form from tree. Variables missing from the blob get blank inputs.
func LoadScalars(tree map[string]any) *ScalarForm {
	f := &ScalarForm{Fields: make([]ScalarField, len(catalog)), index: make(map[string]int, len(catalog))}
	for i, v := range catalog {
		f.Fields[i] = ScalarField{Var: v}
		f.index[v.Name] = i
		f.load(i, tree)
	}
	return f
}

func (f *ScalarForm) load(i int, tree map[string]any) {
	fld := &f.Fields[i]
	fld.Text, fld.Loaded, fld.Present, fld.Source = "", "", false, ""
	key := fld.Var.Name
	val, ok := tree[key]
	if !ok {
		alias, has := legacyAliases[key]
		if !has {
			return
		}
		if val, ok = tree[alias]; !ok {
			return
		}
		key = alias
	}
	fld.Present = true
	fld.Source = key
	fld.Loaded = Literal(val)
	fld.Text = fld.Loaded
}

// Field returns the input for name.
func (f *ScalarForm) Field(name string) (*ScalarField, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return &f.Fields[i], true
}

// SetText replaces the input text of name, rejecting text that could not become a
// value of the variable's kind even after further typing.
func (f *ScalarForm) SetText(name, text string) error {
	fld, ok := f.Field(name)
	if !ok {
		if s := SuggestVariable(name); s != "" {
			return errors.Errorf("unknown variable %q (did you mean %s?)", name, s)
		}
		return errors.Errorf("unknown variable %q", name)
	}
	if !ValidPartial(fld.Var.Kind, text) {
		return errors.Errorf("%q is not a valid %s", text, fld.Var.Kind)
	}
	fld.Text = text
	return nil
}

// Reset blanks every input; blank inputs are left alone on save.
func (f *ScalarForm) Reset() {
	for i := range f.Fields {
		f.Fields[i].Text = ""
	}
}

// Dirty lists the variables whose inputs would change the blob.
func (f *ScalarForm) Dirty() []string {
	var out []string
	for _, fld := range f.Fields {
		if fld.Dirty() {
			out = append(out, fld.Var.Name)
		}
	}
	return out
}

// Apply parses every dirty input and writes it into tree under the canonical name.
// Nothing is written unless every dirty input parses.
func (f *ScalarForm) Apply(tree map[string]any) ([]string, error) {
	type pending struct {
		name string
		val  any
	}
	var (
		writes   []pending
		problems []FieldProblem
	)
	for _, fld := range f.Fields {
		if !fld.Dirty() {
			continue
		}
		text := strings.TrimSpace(fld.Text)
		v, err := ParseScalar(fld.Var.Kind, text)
		if err != nil {
			problems = append(problems, FieldProblem{Field: fld.Var.Name, Kind: fld.Var.Kind, Text: text, Err: err})
			continue
		}
		writes = append(writes, pending{fld.Var.Name, v})
	}
	if len(problems) > 0 {
		return nil, &ValueCoercionError{Problems: problems}
	}
	names := make([]string, 0, len(writes))
	for _, w := range writes {
		tree[w.name] = w.val
		names = append(names, w.name)
	}
	return names, nil
}

// Refresh reloads the named inputs from tree, or all inputs when names is empty.
func (f *ScalarForm) Refresh(tree map[string]any, names ...string) {
	if len(names) == 0 {
		for i := range f.Fields {
			f.load(i, tree)
		}
		return
	}
	for _, n := range names {
		if i, ok := f.index[n]; ok {
			f.load(i, tree)
		}
	}
}

// ParseScalar converts text to int64 or a finite float64 according to kind.
func ParseScalar(kind Kind, text string) (any, error) {
	if kind == Int {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, errors.New("value must be finite")
	}
	return v, nil
}

// ValidPartial reports whether text is acceptable while the user is still typing.
func ValidPartial(kind Kind, text string) bool {
	if text == "" || text == "-" {
		return true
	}
	if kind == Real && (text == "." || text == "-.") {
		return true
	}
	if kind == Real && strings.HasSuffix(text, ".") && !strings.Contains(strings.TrimSuffix(text, "."), ".") {
		text += "0"
	}
	_, err := ParseScalar(kind, text)
	return err == nil
}
