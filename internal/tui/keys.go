package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NewTerminal  key.Binding
	KillTerminal key.Binding
	Split        key.Binding
	Rename       key.Binding
	Relaunch     key.Binding
	Picker       key.Binding
	FocusTabs    key.Binding
	FocusActive  key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	NewTerminal: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	KillTerminal: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "kill"),
	),
	Split: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "split"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Relaunch: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "relaunch"),
	),
	Picker: key.NewBinding(
		key.WithKeys("p", "ctrl+p"),
		key.WithHelp("p", "switch"),
	),
	FocusTabs: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "focus tabs"),
	),
	FocusActive: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "focus terminal"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
