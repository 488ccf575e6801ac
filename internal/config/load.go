package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default returns the embedded default configuration.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, errors.New("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load merges the embedded default, the file at path (skipped when empty),
// and QUICKBAR_* environment variables, then validates the result.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := mergeYAML(&cfg, data); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mergeYAML decodes data over cfg. Fields absent from data keep their
// current values; theme maps are merged key by key.
func mergeYAML(cfg *Config, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Validate checks values that the host cannot recover from at runtime.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Palette.Shortcut) == "" {
		return errors.New("palette.shortcut must not be empty")
	}
	if !slices.Contains(ValidKeymaps, c.Palette.Keymap) {
		return fmt.Errorf("palette.keymap %q is invalid (expected %s)", c.Palette.Keymap, strings.Join(ValidKeymaps, "|"))
	}
	if _, ok := c.Themes[c.Palette.Theme]; !ok {
		return fmt.Errorf("palette.theme %q is not defined (available: %s)", c.Palette.Theme, strings.Join(c.ThemeNames(), ", "))
	}
	if c.Palette.Width < 0 || c.Palette.MaxVisible < 0 || c.App.RecentLimit < 0 {
		return errors.New("palette.width, palette.max_visible and app.recent_limit must be non-negative")
	}
	return nil
}

// ThemeNames returns the defined theme names, sorted.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ResolvePath returns explicit if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/quickbar/config.yaml) or ~/.config/quickbar/config.yaml
// when that file exists.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, "quickbar", "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", "quickbar", "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
