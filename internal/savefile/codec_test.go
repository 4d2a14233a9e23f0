package savefile

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBlob = `{"population":148,"politicalPower":52.5,"warheadQuantity":30000,` +
	`"countries":{"USA":{"active":true,"relationship":-20,"pointOfInfluence":{"economic":1,"political":2,"military":3,"cultural":4,"ideological":5}},` +
	`"FRA":{"active":false,"relationship":10}},` +
	`"characters":{"Yakovlev":{"alive":true,"loyalty":40,"traits":["a","b","",""],"charLevel":{"politics":1,"economics":2,"military":0}}},` +
	`"note":"uses {braces} and \"quotes\" inside"}`

func sampleText() []byte {
	return []byte("CITK2SAVE v3\nslot=2\n" + sampleBlob + "\n--end--\n")
}

func TestLocate_BalancedStopsAtMatchingBrace(t *testing.T) {
	text := []byte("head " + sampleBlob + " tail } junk")
	span, err := Locate(text, Balanced)
	require.NoError(t, err)
	assert.Equal(t, sampleBlob, string(text[span.Start:span.End]))
}

func TestLocate_GreedyTakesLastBrace(t *testing.T) {
	text := []byte("head {\"a\":1} tail }")
	span, err := Locate(text, Greedy)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1} tail }", string(text[span.Start:span.End]))
}

func TestLocate_NoBraces(t *testing.T) {
	for _, mode := range []LocatorMode{Balanced, Greedy} {
		_, err := Locate([]byte("nothing to see"), mode)
		var fe *FormatError
		require.ErrorAs(t, err, &fe, mode.String())
	}
	_, err := Locate([]byte("x } {"), Greedy)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestLocate_Unterminated(t *testing.T) {
	_, err := Locate([]byte(`{"a":{"b":1}`), Balanced)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Error(), "unterminated")
}

func TestExtract_MalformedBlob(t *testing.T) {
	_, err := Extract([]byte(`prefix {"a":} suffix`), Balanced)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "malformed data", fe.Reason)

	_, err = Extract([]byte(`{"a":1} x }`), Greedy)
	require.ErrorAs(t, err, &fe)
}

func TestExtract_SplitsPrefixAndSuffix(t *testing.T) {
	text := []byte("A {x} B\n" + sampleBlob + "\nC")
	ex, err := Extract([]byte("A \n"+sampleBlob+"\nC"), Balanced)
	require.NoError(t, err)
	assert.Equal(t, "A \n", string(ex.Prefix))
	assert.Equal(t, "\nC", string(ex.Suffix))
	assert.Equal(t, json.Number("148"), ex.Tree["population"])

	// a stray balanced region ahead of the blob is picked up first and fails to decode
	_, err = Extract(text, Balanced)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestPatch_RoundTripPreservesSurroundings(t *testing.T) {
	text := sampleText()
	ex, err := Extract(text, Greedy)
	require.NoError(t, err)

	countries := ex.Tree["countries"].(map[string]any)
	countries["FRA"].(map[string]any)["relationship"] = int64(100)

	out, err := Patch(text, ex.Span, ex.Tree)
	require.NoError(t, err)

	again, err := Extract(out, Greedy)
	require.NoError(t, err)
	assert.Equal(t, ex.Prefix, again.Prefix)
	assert.Equal(t, ex.Suffix, again.Suffix)
	assert.Equal(t, json.Number("100"),
		again.Tree["countries"].(map[string]any)["FRA"].(map[string]any)["relationship"])
	assert.Equal(t, "uses {braces} and \"quotes\" inside", again.Tree["note"])
}

func TestPatch_UnchangedTreeIsValueEqual(t *testing.T) {
	text := []byte("pre " + sampleBlob + " post")
	ex, err := Extract(text, Balanced)
	require.NoError(t, err)
	out, err := Patch(text, ex.Span, ex.Tree)
	require.NoError(t, err)
	again, err := Extract(out, Balanced)
	require.NoError(t, err)
	assert.Equal(t, ex.Tree, again.Tree)

	var want, got any
	require.NoError(t, json.Unmarshal([]byte(sampleBlob), &want))
	require.NoError(t, json.Unmarshal(out[again.Span.Start:again.Span.End], &got))
	assert.Equal(t, want, got)
}

func TestEncode_Compact(t *testing.T) {
	out, err := Encode(map[string]any{"b": []any{1, "x<y"}, "a": map[string]any{"k": nil}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"k":null},"b":[1,"x<y"]}`, string(out))
}

func TestPatch_SpanOutOfRange(t *testing.T) {
	_, err := Patch([]byte("{}"), Span{Start: 1, End: 9}, map[string]any{})
	assert.Error(t, err)
}
