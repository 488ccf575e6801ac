package ui

import tea "charm.land/bubbletea/v2"

// SnapshotConfig describes a single rendered frame.
type SnapshotConfig struct {
	Width  int
	Height int
	// Keys are applied with ApplyStartupKeys before rendering.
	Keys []string
}

// RenderSnapshot sizes m, replays the configured keys and returns the frame.
// Commands produced along the way (focus, blink, quit) are not run.
func RenderSnapshot(m *Model, cfg SnapshotConfig) string {
	if cfg.Width > 0 || cfg.Height > 0 {
		w, h := m.width, m.height
		if cfg.Width > 0 {
			w = cfg.Width
		}
		if cfg.Height > 0 {
			h = cfg.Height
		}
		m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
	ApplyStartupKeys(m, cfg.Keys)
	return m.Render()
}
