package fields

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Group is a nested sub-object (or fixed-size list) shown beside a record's flat attributes.
type Group struct {
	Key     string
	Label   string
	SubKeys []string // declared order; extra keys present in the data follow, sorted
	List    bool
	Size    int
}

// Table describes one record table in the blob.
type Table struct {
	Key    string
	Title  string
	Groups []Group
	nested bool // category -> list of records rather than key -> record
}

var (
	Countries = Table{
		Key:   "countries",
		Title: "Countries",
		Groups: []Group{
			{Key: "pointOfInfluence", Label: "Points of influence", SubKeys: []string{"economic", "political", "military", "cultural", "ideological"}},
		},
	}
	Characters = Table{
		Key:   "characters",
		Title: "Characters",
		Groups: []Group{
			{Key: "traits", Label: "Traits", List: true, Size: 4},
			{Key: "charLevel", Label: "Level", SubKeys: []string{"politics", "economics", "military"}},
			{Key: "charExp", Label: "Experience", SubKeys: []string{"politics", "economics", "military"}},
		},
	}
	Technologies = Table{
		Key:    "technologies",
		Title:  "Technologies",
		Groups: []Group{{Key: "cost", Label: "Cost"}},
		nested: true,
	}
)

// Tables lists the record tables in display order.
func Tables() []Table { return []Table{Countries, Characters, Technologies} }

// TableByKey finds a table by its blob key.
func TableByKey(key string) (Table, bool) {
	for _, t := range Tables() {
		if t.Key == key {
			return t, true
		}
	}
	return Table{}, false
}

func (t Table) group(key string) (Group, bool) {
	for _, g := range t.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Keys lists the record keys of table in tree. Missing or mis-shaped tables yield nil.
func Keys(tree map[string]any, t Table) []string {
	raw, ok := tree[t.Key].(map[string]any)
	if !ok {
		return nil
	}
	if !t.nested {
		keys := make([]string, 0, len(raw))
		for k, v := range raw {
			if _, ok := v.(map[string]any); ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		return keys
	}
	cats := make([]string, 0, len(raw))
	for k := range raw {
		cats = append(cats, k)
	}
	sort.Strings(cats)
	var keys []string
	for _, c := range cats {
		levels, _ := raw[c].([]any)
		for i, lv := range levels {
			if _, ok := lv.(map[string]any); ok {
				keys = append(keys, levelKey(c, i))
			}
		}
	}
	return keys
}

// levelKey names entry i of a technology category; levels are numbered from 1.
func levelKey(category string, i int) string { return fmt.Sprintf("%s/%d", category, i+1) }

func splitLevelKey(key string) (string, int, bool) {
	i := strings.LastIndexByte(key, '/')
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil || n < 1 {
		return "", 0, false
	}
	return key[:i], n - 1, true
}

// Record returns the attribute map for key, or false when absent.
func Record(tree map[string]any, t Table, key string) (map[string]any, bool) {
	raw, ok := tree[t.Key].(map[string]any)
	if !ok {
		return nil, false
	}
	if !t.nested {
		rec, ok := raw[key].(map[string]any)
		return rec, ok
	}
	cat, idx, ok := splitLevelKey(key)
	if !ok {
		return nil, false
	}
	levels, _ := raw[cat].([]any)
	if idx >= len(levels) {
		return nil, false
	}
	rec, ok := levels[idx].(map[string]any)
	return rec, ok
}

// forEachRecord visits every record of t in key order.
func forEachRecord(tree map[string]any, t Table, fn func(key string, rec map[string]any)) {
	for _, k := range Keys(tree, t) {
		if rec, ok := Record(tree, t, k); ok {
			fn(k, rec)
		}
	}
}

// WidgetKind is how an attribute is edited.
type WidgetKind int

const (
	TextInput WidgetKind = iota
	Toggle
	ReadOnly
)

// Attr is one editable value of a record.
type Attr struct {
	Group string // "" for flat attributes
	Name  string // attribute, sub-key, or list index
	Kind  WidgetKind
	Text  string
}

// Path names the attribute relative to its record.
func (a Attr) Path() string {
	if a.Group == "" {
		return a.Name
	}
	return a.Group + "." + a.Name
}

// GroupView is a rendered nested group.
type GroupView struct {
	Group   Group
	Present bool
	Attrs   []Attr
}

// RecordView is a record rendered for editing.
type RecordView struct {
	Table  string
	Key    string
	Attrs  []Attr
	Groups []GroupView
}

// All returns flat attributes followed by group attributes.
func (v RecordView) All() []Attr {
	out := append([]Attr(nil), v.Attrs...)
	for _, g := range v.Groups {
		out = append(out, g.Attrs...)
	}
	return out
}

// Clone copies the view so it can be edited independently.
func (v RecordView) Clone() RecordView {
	c := v
	c.Attrs = append([]Attr(nil), v.Attrs...)
	c.Groups = make([]GroupView, len(v.Groups))
	for i, g := range v.Groups {
		c.Groups[i] = g
		c.Groups[i].Attrs = append([]Attr(nil), g.Attrs...)
	}
	return c
}

// Render builds the editable view of rec.
func Render(t Table, key string, rec map[string]any) RecordView {
	view := RecordView{Table: t.Key, Key: key}
	names := make([]string, 0, len(rec))
	for k := range rec {
		if _, isGroup := t.group(k); !isGroup {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	for _, k := range names {
		view.Attrs = append(view.Attrs, attrFor("", k, rec[k]))
	}
	for _, g := range t.Groups {
		view.Groups = append(view.Groups, renderGroup(g, rec[g.Key]))
	}
	return view
}

func attrFor(group, name string, v any) Attr {
	a := Attr{Group: group, Name: name, Text: Literal(v)}
	switch {
	case isComposite(v):
		a.Kind = ReadOnly
	case isBool(v):
		a.Kind = Toggle
	default:
		a.Kind = TextInput
	}
	return a
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func renderGroup(g Group, raw any) GroupView {
	gv := GroupView{Group: g}
	if g.List {
		items, ok := raw.([]any)
		if !ok {
			return gv
		}
		gv.Present = true
		n := len(items)
		if n < g.Size {
			n = g.Size
		}
		for i := 0; i < n; i++ {
			text := ""
			if i < len(items) && items[i] != nil {
				text = Literal(items[i])
			}
			gv.Attrs = append(gv.Attrs, Attr{Group: g.Key, Name: strconv.Itoa(i), Kind: TextInput, Text: text})
		}
		return gv
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return gv
	}
	gv.Present = true
	seen := map[string]bool{}
	for _, k := range g.SubKeys {
		seen[k] = true
		v, has := m[k]
		a := attrFor(g.Key, k, v)
		if !has {
			a.Kind = TextInput
		}
		gv.Attrs = append(gv.Attrs, a)
	}
	var extra []string
	for k := range m {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		gv.Attrs = append(gv.Attrs, attrFor(g.Key, k, m[k]))
	}
	return gv
}

// ApplyRecord writes every attribute whose text differs between orig and edited into rec.
// Flat and map-group text goes through Coerce; toggles become booleans; list entries stay text.
func ApplyRecord(t Table, rec map[string]any, orig, edited RecordView) ([]string, error) {
	if rec == nil {
		return nil, errors.Errorf("%s record %q not found", t.Key, edited.Key)
	}
	before := map[string]Attr{}
	for _, a := range orig.All() {
		before[a.Path()] = a
	}
	var todo []Attr
	for _, a := range edited.All() {
		old, ok := before[a.Path()]
		if !ok || old.Text == a.Text || old.Kind == ReadOnly {
			continue
		}
		if err := checkAttr(t, rec, a); err != nil {
			return nil, err
		}
		todo = append(todo, a)
	}
	changed := make([]string, 0, len(todo))
	for _, a := range todo {
		writeAttr(t, rec, a)
		changed = append(changed, a.Path())
	}
	return changed, nil
}

// checkAttr reports whether a can be written into rec, so a batch fails before any write.
func checkAttr(t Table, rec map[string]any, a Attr) error {
	if a.Group == "" {
		return nil
	}
	g, _ := t.group(a.Group)
	if g.List {
		if _, err := strconv.Atoi(a.Name); err != nil {
			return errors.Wrapf(err, "%s index", a.Group)
		}
		if raw, has := rec[a.Group]; has && raw != nil {
			if _, ok := raw.([]any); !ok {
				return errors.Errorf("%s is not a list", a.Group)
			}
		}
		return nil
	}
	if _, ok := rec[a.Group].(map[string]any); !ok {
		return errors.Errorf("%s is not an object", a.Group)
	}
	return nil
}

// writeAttr stores a into rec; checkAttr must have accepted it.
func writeAttr(t Table, rec map[string]any, a Attr) {
	val := attrValue(a)
	if a.Group == "" {
		rec[a.Name] = val
		return
	}
	g, _ := t.group(a.Group)
	if g.List {
		items, _ := rec[a.Group].([]any)
		i, _ := strconv.Atoi(a.Name)
		for len(items) <= i {
			items = append(items, "")
		}
		items[i] = a.Text
		rec[a.Group] = items
		return
	}
	rec[a.Group].(map[string]any)[a.Name] = val
}

func attrValue(a Attr) any {
	if a.Kind == Toggle {
		return strings.EqualFold(a.Text, "true")
	}
	return Coerce(a.Text)
}
