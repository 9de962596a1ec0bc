// Package config loads the CLI configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Log contains log output settings.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Store contains snapshot store settings.
type Store struct {
	// Path is the sqlite database holding session snapshots.
	Path string `toml:"path"`
}

// Parse contains the parse options applied to every command.
type Parse struct {
	ResolveStyles      bool `toml:"resolve_styles"`
	ResolveListSources bool `toml:"resolve_list_sources"`
}

// Export contains settings for written packages.
type Export struct {
	// Dir receives session exports given as a bare file name.
	Dir string `toml:"dir"`
}

// Config encapsulates all configuration values for ooxmledit.
type Config struct {
	Log    Log    `toml:"log"`
	Store  Store  `toml:"store"`
	Parse  Parse  `toml:"parse"`
	Export Export `toml:"export"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log: Log{
			Level:  "info",
			Format: "console",
		},
		Store: Store{
			Path: filepath.Join(dataHome(), "ooxmledit", "sessions.db"),
		},
		Parse: Parse{
			ResolveListSources: true,
		},
		Export: Export{
			Dir: ".",
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() string {
	return filepath.Join(configHome(), "ooxmledit", "config.toml")
}

// Load parses and validates the configuration at path, or at the default
// location when path is empty. A missing file yields the defaults. The
// resolved path and whether the file existed are returned with the config.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, "", false, err
	}

	exists := true
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func (c *Config) normalize() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}

	var err error
	if c.Store.Path, err = expandPath(strings.TrimSpace(c.Store.Path)); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	if c.Export.Dir, err = expandPath(strings.TrimSpace(c.Export.Dir)); err != nil {
		return fmt.Errorf("export.dir: %w", err)
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unsupported value %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q", c.Log.Format)
	}
	if c.Store.Path == "" {
		return errors.New("store.path must be set")
	}
	return nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}
	return abs, nil
}

func configHome() string {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return base
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return "~/.config"
}

func dataHome() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return base
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}
	return "~/.local/share"
}
