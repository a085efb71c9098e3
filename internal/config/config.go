// Package config handles global Shrike configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/shrikedb/shrike/internal/paths"
	"github.com/shrikedb/shrike/internal/store"
)

// Config represents the global Shrike configuration.
type Config struct {
	// Runtime selects the storage backend: desktop, server, mobile, or
	// memory. Defaults to desktop.
	Runtime string `toml:"runtime"`

	// DataDir overrides the runtime's default store directory.
	DataDir string `toml:"data_dir"`

	// AssetDir holds bundled <name>.sql schema scripts and store snapshots.
	AssetDir string `toml:"asset_dir"`

	// IDColumn is the id column assumed on every table (default "id").
	IDColumn string `toml:"id_column"`

	// DefaultLimit caps query results when no explicit limit is given.
	DefaultLimit int `toml:"default_limit"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output. Supported values
	// are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// StoreConfig converts the file-level configuration into a store.Config.
func (c *Config) StoreConfig() (store.Config, error) {
	rt, err := paths.ParseRuntime(c.Runtime)
	if err != nil {
		return store.Config{}, err
	}
	return store.Config{
		Runtime:  rt,
		DataDir:  c.DataDir,
		AssetDir: c.AssetDir,
		IDColumn: c.IDColumn,
	}, nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/shrike/config.toml first (XDG style),
// then falls back to the OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "shrike", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "shrike", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// CreateDefault creates a default config file if it doesn't exist.
// Returns the path it wrote (or found).
func CreateDefault() (string, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# Shrike configuration

# Storage backend: desktop, server, mobile, or memory
# runtime = "desktop"

# Directory for store files (defaults per runtime)
# data_dir = "/var/lib/myapp"

# Directory holding bundled <name>.sql scripts and snapshots
# asset_dir = "./assets"

# Id column assumed on every table
# id_column = "id"

# Default LIMIT applied to queries without an explicit cap
# default_limit = 200

# [ui]
# accent = "#7AA2F7"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return configPath, nil
}
