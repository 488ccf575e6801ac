package ui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
)

// Run starts the interactive program. startKeys are applied before the first
// frame.
func Run(m *Model, startKeys []string, opts ...tea.ProgramOption) error {
	ApplyStartupKeys(m, startKeys)
	if m.Quitting() {
		return nil
	}
	p := tea.NewProgram(m, opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
