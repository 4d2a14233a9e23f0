package fields

import (
	"log"

	"github.com/pkg/errors"
)

// Scope is the part of the blob a shortcut touches.
type Scope string

const (
	ScopeVariables    Scope = "variables"
	ScopeCountries    Scope = "countries"
	ScopeCharacters   Scope = "characters"
	ScopeTechnologies Scope = "technologies"
)

// Shortcut is a one-click bulk edit. Apply returns how many records (or variables) it set.
type Shortcut struct {
	Name  string
	Label string
	Scope Scope
	apply func(tree map[string]any) int
}

// Apply runs the shortcut against tree.
func (s Shortcut) Apply(tree map[string]any) int {
	n := s.apply(tree)
	log.Printf("shortcut %s updated %d", s.Name, n)
	return n
}

const (
	maxRelationship = 100
	maxInfluence    = 100
	maxLoyalty      = 100
	maxCharLevel    = 5
)

var shortcuts = []Shortcut{
	{
		Name: "max-relations", Label: "Relationship 100 with active countries", Scope: ScopeCountries,
		apply: func(tree map[string]any) int {
			return setWhere(tree, Countries, "active", func(rec map[string]any) bool {
				rec["relationship"] = int64(maxRelationship)
				return true
			})
		},
	},
	{
		Name: "max-influence", Label: "Full influence in active countries", Scope: ScopeCountries,
		apply: func(tree map[string]any) int {
			return setWhere(tree, Countries, "active", func(rec map[string]any) bool {
				return setAll(rec, "pointOfInfluence", int64(maxInfluence))
			})
		},
	},
	{
		Name: "max-loyalty", Label: "Loyalty 100 for living characters", Scope: ScopeCharacters,
		apply: func(tree map[string]any) int {
			return setWhere(tree, Characters, "alive", func(rec map[string]any) bool {
				rec["loyalty"] = int64(maxLoyalty)
				return true
			})
		},
	},
	{
		Name: "max-skills", Label: "Top level in every skill for living characters", Scope: ScopeCharacters,
		apply: func(tree map[string]any) int {
			return setWhere(tree, Characters, "alive", func(rec map[string]any) bool {
				return setAll(rec, "charLevel", int64(maxCharLevel))
			})
		},
	},
	{
		Name: "free-research", Label: "Zero cost for every technology level", Scope: ScopeTechnologies,
		apply: func(tree map[string]any) int {
			return setWhere(tree, Technologies, "", func(rec map[string]any) bool {
				return setAll(rec, "cost", int64(0))
			})
		},
	},
	{
		Name: "research-all", Label: "Mark every technology level researched", Scope: ScopeTechnologies,
		apply: func(tree map[string]any) int {
			return setWhere(tree, Technologies, "", func(rec map[string]any) bool {
				rec["researched"] = true
				return true
			})
		},
	},
	{
		Name: "max-staff-loyalty", Label: "Army, staff, services and intelligentsia loyalty 100", Scope: ScopeVariables,
		apply: func(tree map[string]any) int {
			return setVariables(tree, 100, "militaryStaffLoyalty", "armyStaffLoyalty", "specialServicesLoyalty", "intelligentsiaLoyalty")
		},
	},
	{
		Name: "clear-loans", Label: "Repay US, France and IMF loans", Scope: ScopeVariables,
		apply: func(tree map[string]any) int {
			return setVariables(tree, 0, "usLoan", "fraLoan", "imfLoan")
		},
	},
	{
		Name: "zero-corruption", Label: "No corruption or forgery", Scope: ScopeVariables,
		apply: func(tree map[string]any) int {
			return setVariables(tree, 0, "corruptionLevel", "forgeryLevel")
		},
	},
	{
		Name: "max-industry", Label: "Every economic sector at 100", Scope: ScopeVariables,
		apply: func(tree map[string]any) int {
			return setVariables(tree, 100, "agroEffectiveness", "servicesEffectiveness",
				"lightIndustryEffectiveness", "heavyIndustryEffectiveness", "armyIndustryEffectiveness")
		},
	},
}

// Shortcuts returns every bulk shortcut in display order.
func Shortcuts() []Shortcut {
	out := make([]Shortcut, len(shortcuts))
	copy(out, shortcuts)
	return out
}

// FindShortcut looks a shortcut up by name.
func FindShortcut(name string) (Shortcut, error) {
	names := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		if s.Name == name {
			return s, nil
		}
		names[i] = s.Name
	}
	if s := Suggest(name, names); s != "" {
		return Shortcut{}, errors.Errorf("unknown shortcut %q (did you mean %s?)", name, s)
	}
	return Shortcut{}, errors.Errorf("unknown shortcut %q", name)
}

// setWhere calls set on every record of t whose guard attribute is true (every record
// when guard is empty) and counts the records set reported as changed.
func setWhere(tree map[string]any, t Table, guard string, set func(rec map[string]any) bool) int {
	n := 0
	forEachRecord(tree, t, func(_ string, rec map[string]any) {
		if guard != "" && !isTrue(rec[guard]) {
			return
		}
		if set(rec) {
			n++
		}
	})
	return n
}

// setAll sets every entry of the nested object rec[group] to v.
func setAll(rec map[string]any, group string, v any) bool {
	m, ok := rec[group].(map[string]any)
	if !ok {
		return false
	}
	for k := range m {
		m[k] = v
	}
	return true
}

// setVariables writes v into each named variable present in tree, typed per its kind.
func setVariables(tree map[string]any, v int64, names ...string) int {
	n := 0
	for _, name := range names {
		if _, ok := tree[name]; !ok {
			continue
		}
		variable, _ := LookupVariable(name)
		if variable.Kind == Int {
			tree[name] = v
		} else {
			tree[name] = float64(v)
		}
		n++
	}
	return n
}
