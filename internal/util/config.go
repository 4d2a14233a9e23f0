package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings and flags.
type Config struct {
	SaveDir   string `yaml:"save_dir"`
	DSN       string `yaml:"dsn"`
	Theme     string `yaml:"theme"`
	Locator   string `yaml:"locator"` // balanced|greedy
	ExportDir string `yaml:"export_dir"`
	LogFile   string `yaml:"log_file"`
}

// ApplyDefaults fills empty settings.
func (c *Config) ApplyDefaults() {
	if c.Theme == "" {
		c.Theme = "kremlin"
	}
	if c.Locator == "" {
		c.Locator = "balanced"
	}
	if c.ExportDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.ExportDir = filepath.Join(home, ".citk2-editor", "exports")
		}
	}
}

// DefaultConfigPath is <user config dir>/citk2-editor/config.yaml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "citk2-editor", "config.yaml")
}

// Load reads the YAML file at path (a missing file is fine), then overlays .env and
// process environment. Flags are applied by the caller.
func Load(path string) (Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return Config{}, errors.Wrapf(err, "parse %s", path)
			}
		case !os.IsNotExist(err):
			return Config{}, errors.Wrapf(err, "read %s", path)
		}
	}
	// .env is optional
	_ = godotenv.Load()
	c.overlayEnv(os.Getenv)
	c.ApplyDefaults()
	return c, nil
}

func (c *Config) overlayEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.SaveDir, "CITK2_SAVE_DIR")
	set(&c.DSN, "DATABASE_URL")
	set(&c.Theme, "CITK2_THEME")
	set(&c.Locator, "CITK2_LOCATOR")
	set(&c.ExportDir, "CITK2_EXPORT_DIR")
	set(&c.LogFile, "CITK2_LOG")
}
