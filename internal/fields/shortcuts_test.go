package fields

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShortcut(t *testing.T, name string, tree map[string]any) int {
	t.Helper()
	s, err := FindShortcut(name)
	require.NoError(t, err)
	return s.Apply(tree)
}

func TestMaxRelations_OnlyActiveCountries(t *testing.T) {
	tree := decode(t, recordsBlob)
	n := runShortcut(t, "max-relations", tree)
	assert.Equal(t, 2, n)

	c := tree["countries"].(map[string]any)
	assert.Equal(t, int64(100), c["USA"].(map[string]any)["relationship"])
	assert.Equal(t, int64(100), c["FRA"].(map[string]any)["relationship"])
	assert.Equal(t, json.Number("30"), c["CHN"].(map[string]any)["relationship"])
}

func TestMaxInfluence_SkipsCountriesWithoutInfluence(t *testing.T) {
	tree := decode(t, recordsBlob)
	assert.Equal(t, 1, runShortcut(t, "max-influence", tree))
	usa := tree["countries"].(map[string]any)["USA"].(map[string]any)
	for _, v := range usa["pointOfInfluence"].(map[string]any) {
		assert.Equal(t, int64(100), v)
	}
	chn := tree["countries"].(map[string]any)["CHN"].(map[string]any)
	assert.Equal(t, json.Number("0"), chn["pointOfInfluence"].(map[string]any)["economic"])
}

func TestCharacterShortcuts(t *testing.T) {
	tree := decode(t, recordsBlob)
	assert.Equal(t, 1, runShortcut(t, "max-loyalty", tree))
	assert.Equal(t, 1, runShortcut(t, "max-skills", tree))
	chars := tree["characters"].(map[string]any)
	assert.Equal(t, json.Number("10"), chars["Ligachev"].(map[string]any)["loyalty"])
	assert.Equal(t, int64(maxCharLevel), chars["Yakovlev"].(map[string]any)["charLevel"].(map[string]any)["military"])
}

func TestTechnologyShortcuts(t *testing.T) {
	tree := decode(t, recordsBlob)
	assert.Equal(t, 3, runShortcut(t, "free-research", tree))
	assert.Equal(t, 3, runShortcut(t, "research-all", tree))
	space := tree["technologies"].(map[string]any)["space"].([]any)
	lvl := space[0].(map[string]any)
	assert.Equal(t, int64(0), lvl["cost"].(map[string]any)["science"])
	assert.Equal(t, true, space[1].(map[string]any)["researched"])
}

func TestVariableShortcuts_OnlyPresentKeys(t *testing.T) {
	tree := decode(t, `{"usLoan":500,"imfLoan":3,"corruptionLevel":40.5}`)
	assert.Equal(t, 2, runShortcut(t, "clear-loans", tree))
	assert.Equal(t, int64(0), tree["usLoan"])
	_, added := tree["fraLoan"]
	assert.False(t, added)

	assert.Equal(t, 1, runShortcut(t, "zero-corruption", tree))
	assert.Equal(t, 0.0, tree["corruptionLevel"])
}

func TestShortcuts_MissingTables(t *testing.T) {
	for _, s := range Shortcuts() {
		assert.Equal(t, 0, s.Apply(map[string]any{}), s.Name)
	}
}
