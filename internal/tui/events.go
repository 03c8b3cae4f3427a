package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"termtabs/internal/term"
)

// termEventMsg carries one service change notification into the update loop.
type termEventMsg struct {
	event term.Event
}

// eventsClosedMsg signals that the service shut down.
type eventsClosedMsg struct{}

// waitEvent blocks on the service event channel and re-arms after every
// message, so exactly one reader drains the channel.
func waitEvent(ch <-chan term.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return termEventMsg{event: ev}
	}
}
