// Package config handles global quill configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultLines is the default number of notes listed or opened.
	DefaultLines = 10
	// DefaultCacheName is the cache file created in the home directory.
	DefaultCacheName = ".notes-cache"

	// EnvCache overrides the cache location.
	EnvCache = "QUILL_CACHE"
	// EnvConfig overrides the config file location.
	EnvConfig = "QUILL_CONFIG"
)

// ErrHomeDir indicates the user's home directory could not be determined.
var ErrHomeDir = errors.New("failed to find your home directory")

// Config represents the global quill configuration.
type Config struct {
	// Cache is the path of the notes cache. Defaults to ~/.notes-cache.
	Cache string `toml:"cache"`

	// Opener is the command used to open note bodies. Defaults to the OS handler.
	Opener string `toml:"opener"`

	// Lines is the default limit for list/open/show.
	Lines int `toml:"lines"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// ExportFormat is used when the export path has no recognizable extension.
	ExportFormat string `toml:"export_format"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an ANSI color code ("0" to "255") or hex color ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Default returns a config with every default filled in.
func Default() *Config {
	return &Config{
		Lines:        DefaultLines,
		LogLevel:     "warn",
		ExportFormat: "json",
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Lines, validation.Min(1)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.ExportFormat, validation.In("json", "yaml", "yml", "toml")),
		validation.Field(&c.UI),
	)
}

// Validate checks the UI settings.
func (u UIConfig) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Accent, validation.By(validAccent)),
	)
}

func validAccent(value interface{}) error {
	accent, _ := value.(string)
	if accent == "" {
		return nil
	}
	if strings.HasPrefix(accent, "#") {
		if len(accent) != 7 || strings.Trim(accent[1:], "0123456789abcdefABCDEF") != "" {
			return errors.New("must be a #RRGGBB hex color")
		}
		return nil
	}
	if n, err := strconv.Atoi(accent); err != nil || n < 0 || n > 255 {
		return errors.New("must be an ANSI color code between 0 and 255")
	}
	return nil
}

// SlogLevel converts LogLevel into a slog level, defaulting to warn.
func (c *Config) SlogLevel() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

// ParseLogLevel converts a level name into a slog level, defaulting to warn.
func ParseLogLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Load loads the configuration from path, applying defaults for missing keys.
// A missing file yields the default config.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/quill/config.toml first (XDG style),
// then falls back to the OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "quill", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "quill", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// ResolveConfigPath resolves the config path: explicit flag, then
// $QUILL_CONFIG, then DefaultPath.
func ResolveConfigPath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p
	}
	return DefaultPath()
}

// ResolveCachePath resolves the cache location: explicit flag, then
// $QUILL_CACHE, then the config file, then ~/.notes-cache.
func ResolveCachePath(explicit string, cfg *Config) (string, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		candidate = strings.TrimSpace(os.Getenv(EnvCache))
	}
	if candidate == "" && cfg != nil {
		candidate = strings.TrimSpace(cfg.Cache)
	}

	if candidate == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return "", ErrHomeDir
		}
		return filepath.Join(home, DefaultCacheName), nil
	}

	if candidate == "~" || strings.HasPrefix(candidate, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return "", ErrHomeDir
		}
		candidate = filepath.Join(home, candidate[1:])
	}

	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache path %s: %w", candidate, err)
	}
	return abs, nil
}
