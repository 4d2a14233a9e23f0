package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/citk2-editor/internal/savefile"
)

const blob = `{"defcon":3,"warheadQuantity":12,"unknownKey":"x",
"countries":{"USA":{"active":true,"relationship":-20},"FRA":{"active":true},"CHN":{"active":false,"relationship":30}},
"characters":{"Yakovlev":{"alive":true},"Ligachev":{"alive":false}},
"technologies":{"space":[{"researched":false},{"researched":true}]}}`

func tree(t *testing.T) map[string]any {
	t.Helper()
	tr, err := savefile.Decode([]byte(blob))
	require.NoError(t, err)
	return tr
}

func TestSummarize(t *testing.T) {
	s := Summarize(tree(t))

	require.Len(t, s.Stats, 2)
	assert.Equal(t, "defcon", s.Stats[0].Name)
	assert.Equal(t, "3", s.Stats[0].Value)
	assert.Equal(t, Stat{Label: s.Stats[1].Label, Name: "warheadsQuantity", Value: "12"}, s.Stats[1])

	require.Len(t, s.Tables, 3)
	assert.Equal(t, TableCount{Title: "Countries", Total: 3, Flagged: 2, Flag: "active"}, s.Tables[0])
	assert.Equal(t, 1, s.Tables[1].Flagged)
	assert.Equal(t, 2, s.Tables[2].Total)

	assert.Equal(t, []Country{{Name: "FRA"}, {Name: "USA", Relationship: "-20"}}, s.Active)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(tree(t))
	assert.Contains(t, md, "# Save report")
	assert.Contains(t, md, "| `defcon` | 3 |")
	assert.Contains(t, md, "- **Countries**: 3 (2 active)")
	assert.Contains(t, md, "- USA (relationship -20)")
	assert.NotContains(t, md, "CHN")

	empty := Markdown(map[string]any{})
	assert.Contains(t, empty, "_No known variables in this save._")
	assert.Contains(t, empty, "_None._")
}

func TestExportMarkdown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := ExportMarkdown(dir, "/saves/autosave.citk2save", "# hi\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "autosave_report.md"), path)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hi\n", string(got))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "autosave.citk2save", tree(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
