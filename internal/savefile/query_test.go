package savefile

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) map[string]any {
	t.Helper()
	tree, err := Decode([]byte(sampleBlob))
	require.NoError(t, err)
	return tree
}

func TestGet(t *testing.T) {
	tree := sampleTree(t)
	res, err := Get(tree, "countries.USA.pointOfInfluence.military")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Int())

	_, err = Get(tree, "countries.XXX.relationship")
	assert.Error(t, err)
}

func TestSet(t *testing.T) {
	tree := sampleTree(t)
	out, err := Set(tree, "countries.FRA.relationship", int64(75))
	require.NoError(t, err)
	assert.Equal(t, json.Number("75"), out["countries"].(map[string]any)["FRA"].(map[string]any)["relationship"])
	// input tree untouched
	assert.Equal(t, json.Number("10"), tree["countries"].(map[string]any)["FRA"].(map[string]any)["relationship"])

	out, err = Set(tree, "countries.FRA.newFlag", true)
	require.NoError(t, err)
	assert.Equal(t, true, out["countries"].(map[string]any)["FRA"].(map[string]any)["newFlag"])

	_, err = Set(tree, "countries.XXX.relationship", int64(1))
	assert.Error(t, err)
}

func TestJoinPathEscapes(t *testing.T) {
	assert.Equal(t, `characters.A\. Gromyko.loyalty`, JoinPath("characters", "A. Gromyko", "loyalty"))
	assert.Equal(t, `a\.b`, parentPath(`a\.b.c`))
	assert.Equal(t, "", parentPath(`a\.b`))
}
