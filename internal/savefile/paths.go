package savefile

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Extension is the conventional save file suffix.
const Extension = ".citk2save"

// DefaultSaveDir returns the game's per-user save directory, or the home directory when
// that does not exist.
func DefaultSaveDir() string {
	home, _ := os.UserHomeDir()
	dir := saveDirFor(runtime.GOOS, home, os.Getenv("USERPROFILE"))
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return home
}

func saveDirFor(goos, home, userProfile string) string {
	switch goos {
	case "windows":
		base := userProfile
		if base == "" {
			base = home
		}
		if base == "" {
			return ""
		}
		return filepath.Join(base, "AppData", "LocalLow", "Nostalgames", "CrisisInTheKremlin2", "saved_games")
	case "darwin":
		if home == "" {
			return ""
		}
		return filepath.Join(home, "Library", "Application Support", "Nostalgames", "CrisisInTheKremlin2", "saved_games")
	default:
		if home == "" {
			return ""
		}
		return filepath.Join(home, ".config", "unity3d", "Nostalgames", "CrisisInTheKremlin2", "saved_games")
	}
}

// SaveInfo is a save file found on disk.
type SaveInfo struct {
	Path string
	Name string
	Size int64
	Mod  time.Time
}

// ListSaves returns the save files in dir, newest first.
func ListSaves(dir string) ([]SaveInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []SaveInfo
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Extension) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, SaveInfo{
			Path: filepath.Join(dir, e.Name()),
			Name: e.Name(),
			Size: info.Size(),
			Mod:  info.ModTime(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mod.Equal(out[j].Mod) {
			return out[i].Name < out[j].Name
		}
		return out[i].Mod.After(out[j].Mod)
	})
	return out, nil
}
