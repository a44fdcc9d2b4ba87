package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds CLI settings loadable from a TOML file. Flags override
// file values.
type Config struct {
	Ecosystem   string `toml:"ecosystem"`
	Registry    string `toml:"registry"`
	Timeout     int    `toml:"timeout_seconds"`
	MaxRetries  int    `toml:"max_retries"`
	Concurrency int    `toml:"concurrency"`
}

func defaultConfig() Config {
	return Config{
		Ecosystem:   "cargo",
		Timeout:     30,
		MaxRetries:  5,
		Concurrency: 15,
	}
}

// loadConfig reads path when non-empty; otherwise it tries the default
// location and silently falls back to defaults if no file exists.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "resolve", "config.toml")
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}
