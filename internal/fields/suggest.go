package fields

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to input, or "" when nothing is near enough.
func Suggest(input string, candidates []string) string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return ""
	}
	type scored struct {
		name string
		dist int
	}
	var hits []scored
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if strings.HasPrefix(lc, in) && len(in) >= 3 {
			hits = append(hits, scored{c, 0})
			continue
		}
		d := levenshtein.ComputeDistance(in, lc)
		if d <= distanceLimit(len(lc)) {
			hits = append(hits, scored{c, d})
		}
	}
	if len(hits) == 0 {
		return ""
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].name < hits[j].name
		}
		return hits[i].dist < hits[j].dist
	})
	return hits[0].name
}

// SuggestVariable suggests a known scalar variable name.
func SuggestVariable(input string) string { return Suggest(input, variableNames()) }

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
