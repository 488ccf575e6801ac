package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/quickbar/internal/config"
)

// Theme holds the resolved colors used to draw the host page and palette.
// A nil color means "terminal default".
type Theme struct {
	Name        string
	Accent      color.Color // titles, group headings, help keys
	Text        color.Color // item labels and page text
	Muted       color.Color // descriptions, hints, separators
	SelectedFG  color.Color // selected row foreground
	SelectedBG  color.Color // selected row background
	Border      color.Color // palette border
	BorderStyle string      // normal|rounded
	Status      color.Color // status line text
	Error       color.Color // status line text for errors
}

// ThemeFromConfig resolves a configured theme. Empty values stay nil.
func ThemeFromConfig(name string, cfg config.ThemeConfig) Theme {
	th := Theme{Name: name, BorderStyle: normalizeBorderStyle(cfg.BorderStyle)}
	set := func(val string, dst *color.Color) {
		if v := strings.TrimSpace(val); v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(cfg.Accent, &th.Accent)
	set(cfg.Text, &th.Text)
	set(cfg.Muted, &th.Muted)
	set(cfg.SelectedFG, &th.SelectedFG)
	set(cfg.SelectedBG, &th.SelectedBG)
	set(cfg.Border, &th.Border)
	set(cfg.Status, &th.Status)
	set(cfg.Error, &th.Error)
	return th
}

// style returns a style with fg applied unless colors are disabled or fg is unset.
func (th Theme) style(fg color.Color, noColor bool) lipgloss.Style {
	s := lipgloss.NewStyle()
	if noColor || fg == nil {
		return s
	}
	return s.Foreground(fg)
}

func (th Theme) selectedStyle(noColor bool) lipgloss.Style {
	if noColor {
		return lipgloss.NewStyle().Reverse(true)
	}
	s := lipgloss.NewStyle().Bold(true)
	if th.SelectedFG != nil {
		s = s.Foreground(th.SelectedFG)
	}
	if th.SelectedBG != nil {
		s = s.Background(th.SelectedBG)
	} else {
		s = s.Reverse(true)
	}
	return s
}

func normalizeBorderStyle(val string) string {
	switch strings.TrimSpace(strings.ToLower(val)) {
	case "rounded", "round":
		return "rounded"
	default:
		return "normal"
	}
}

func borderForStyle(style string) lipgloss.Border {
	if normalizeBorderStyle(style) == "rounded" {
		return lipgloss.RoundedBorder()
	}
	return lipgloss.NormalBorder()
}
