package savefile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDirFor(t *testing.T) {
	assert.Equal(t,
		filepath.Join(`C:\Users\ivan`, "AppData", "LocalLow", "Nostalgames", "CrisisInTheKremlin2", "saved_games"),
		saveDirFor("windows", "/ignored", `C:\Users\ivan`))
	assert.Equal(t,
		filepath.Join("/home/ivan", ".config", "unity3d", "Nostalgames", "CrisisInTheKremlin2", "saved_games"),
		saveDirFor("linux", "/home/ivan", ""))
	assert.Equal(t, "", saveDirFor("linux", "", ""))
}

func TestListSaves_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old"+Extension)
	fresh := filepath.Join(dir, "fresh"+Extension)
	require.NoError(t, os.WriteFile(old, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fresh"+Extension+BackupSuffix), []byte("{}"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	saves, err := ListSaves(dir)
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, "fresh"+Extension, saves[0].Name)
	assert.Equal(t, "old"+Extension, saves[1].Name)
	assert.WithinDuration(t, past, saves[1].Mod, time.Second)
}
