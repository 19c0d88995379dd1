// Package tui is a live tag monitor: it polls the reader's tag list on
// an interval and renders the unique tag population.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"alien_rfid_go/sdk"
)

// Run starts the monitor against an already constructed client and
// blocks until the user quits.
func Run(client *sdk.Client, target string) error {
	program := tea.NewProgram(NewModel(client, target), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
