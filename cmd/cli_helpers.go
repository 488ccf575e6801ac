package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakwood-commons/quickbar/internal/actions"
	"github.com/oakwood-commons/quickbar/internal/config"
	"github.com/oakwood-commons/quickbar/internal/ui"
	"github.com/oakwood-commons/quickbar/pkg/logger"
	"github.com/oakwood-commons/quickbar/pkg/settings"
)

type themeSelectionError struct {
	Selected     string
	Available    []string
	DefaultTheme string
}

func (e themeSelectionError) Error() string {
	return fmt.Sprintf("unknown theme %q\navailable themes: %v\ndefault theme: %s", e.Selected, e.Available, e.DefaultTheme)
}

// loadConfigState merges the config file with the CLI overrides. Flags win
// over QUICKBAR_* variables, which win over the file.
func loadConfigState() (config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(configFile))
	if err != nil {
		return cfg, err
	}
	if name := strings.TrimSpace(themeName); name != "" {
		if _, ok := cfg.Themes[name]; !ok {
			return cfg, themeSelectionError{Selected: name, Available: cfg.ThemeNames(), DefaultTheme: cfg.Palette.Theme}
		}
		cfg.Palette.Theme = name
	}
	if keyMode != "" {
		cfg.Palette.Keymap = keyMode
	}
	if registryPath != "" {
		cfg.App.Registry = registryPath
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildHost creates the terminal host and binds the registry's callbacks to it.
func buildHost(ctx context.Context, cfg config.Config, opts ...ui.Option) (*ui.Model, error) {
	lgr := logger.FromContext(ctx)
	run, _ := settings.FromContext(ctx)
	base := []ui.Option{ui.WithLogger(logger.Component(lgr, "host"))}
	if run != nil {
		base = append(base, ui.WithNoColor(run.NoColor))
	}
	m := ui.NewModel(cfg, append(base, opts...)...)

	b, err := actions.NewBinder(m)
	if err != nil {
		return nil, err
	}
	reg, err := b.LoadRegistry(cfg.App.Registry)
	if err != nil {
		return nil, err
	}
	lgr.V(1).Info("registry loaded", logger.RegistryKey, registrySource(cfg.App.Registry), "actions", reg.Len())
	m.SetRegistry(reg)
	return m, nil
}

func registrySource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
