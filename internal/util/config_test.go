package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CITK2_THEME", "")
	t.Setenv("CITK2_LOCATOR", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "kremlin", cfg.Theme)
	assert.Equal(t, "balanced", cfg.Locator)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("save_dir: /saves\ntheme: dracula\nlocator: greedy\n"), 0o600))
	t.Setenv("CITK2_THEME", "gruvbox")
	t.Setenv("CITK2_LOCATOR", "")
	t.Setenv("CITK2_SAVE_DIR", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/saves", cfg.SaveDir)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, "greedy", cfg.Locator)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unterminated\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
