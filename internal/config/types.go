// Package config loads quickbar's settings: an embedded default, an optional
// YAML file on top of it, then QUICKBAR_* environment overrides.
package config

// Config is the merged configuration.
type Config struct {
	App     AppConfig              `yaml:"app"`
	Palette PaletteConfig          `yaml:"palette"`
	Themes  map[string]ThemeConfig `yaml:"themes"`
}

// AppConfig describes the host application around the palette.
type AppConfig struct {
	Name        string `yaml:"name"`
	StartRoute  string `yaml:"start_route" env:"QUICKBAR_START_ROUTE"`
	Registry    string `yaml:"registry" env:"QUICKBAR_REGISTRY"`
	RecentLimit int    `yaml:"recent_limit" env:"QUICKBAR_RECENT_LIMIT"`
}

// PaletteConfig controls how the palette is opened, navigated and drawn.
type PaletteConfig struct {
	Shortcut    string `yaml:"shortcut" env:"QUICKBAR_SHORTCUT"`
	Keymap      string `yaml:"keymap" env:"QUICKBAR_KEYMAP"`
	Theme       string `yaml:"theme" env:"QUICKBAR_THEME"`
	Width       int    `yaml:"width"`
	MaxVisible  int    `yaml:"max_visible"`
	Placeholder string `yaml:"placeholder"`
}

// ThemeConfig is a named color scheme. Colors are ANSI 256 indexes or hex.
type ThemeConfig struct {
	Accent      string `yaml:"accent"`
	Text        string `yaml:"text"`
	Muted       string `yaml:"muted"`
	SelectedFG  string `yaml:"selected_fg"`
	SelectedBG  string `yaml:"selected_bg"`
	Border      string `yaml:"border"`
	BorderStyle string `yaml:"border_style"`
	Status      string `yaml:"status"`
	Error       string `yaml:"error"`
}

// ValidKeymaps lists the accepted values of palette.keymap.
var ValidKeymaps = []string{"vim", "emacs", "function"}
