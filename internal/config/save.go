package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/quill/internal/atomicfile"
)

const defaultConfigTemplate = `# quill configuration

# Location of the notes cache (defaults to ~/.notes-cache).
# cache = "~/.notes-cache"

# Command used by 'quill open' (defaults to the OS handler:
# open on macOS, xdg-open on Linux).
# opener = "code"

# Number of notes listed/opened when --lines is not given.
lines = 10

# Log verbosity on stderr: debug, info, warn, error.
log_level = "warn"

# Export format when the target file has no .json/.yaml/.toml extension.
export_format = "json"

# Optional accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

type persistedConfig struct {
	Cache        *string              `toml:"cache,omitempty"`
	Opener       *string              `toml:"opener,omitempty"`
	Lines        int                  `toml:"lines,omitempty"`
	LogLevel     *string              `toml:"log_level,omitempty"`
	ExportFormat *string              `toml:"export_format,omitempty"`
	UI           *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// CreateDefault writes a commented default config to path if none exists.
// It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// SaveTo writes cfg to path atomically, omitting unset values.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := persistedConfig{
		Cache:        nonEmptyPtr(cfg.Cache),
		Opener:       nonEmptyPtr(cfg.Opener),
		Lines:        cfg.Lines,
		LogLevel:     nonEmptyPtr(cfg.LogLevel),
		ExportFormat: nonEmptyPtr(cfg.ExportFormat),
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
