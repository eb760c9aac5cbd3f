// Package tui runs the interactive alert dashboard.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/casewatch/internal/tui/state"
)

// Run starts the dashboard and blocks until the user quits. Polling and
// debounce timers belong to the program and stop with it.
func Run(opts state.Options, programOpts ...tea.ProgramOption) error {
	model, err := state.NewModel(opts)
	if err != nil {
		return err
	}
	defer model.Close()

	if len(programOpts) == 0 {
		programOpts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	if _, err := tea.NewProgram(model, programOpts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
