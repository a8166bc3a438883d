package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the timer view.
type keyMap struct {
	// Timer control
	StartFocus  key.Binding
	StartBreak  key.Binding
	TogglePause key.Binding
	Stop        key.Binding
	Reset       key.Binding
	Restart     key.Binding

	// General
	AutoBreak  key.Binding
	CycleTheme key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		StartFocus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "focus"),
		),
		StartBreak: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "break"),
		),
		TogglePause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Restart: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "restart interval"),
		),

		AutoBreak: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle auto-break"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartFocus, k.StartBreak, k.TogglePause, k.Stop, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartFocus, k.StartBreak, k.TogglePause},
		{k.Stop, k.Reset, k.Restart},
		{k.AutoBreak, k.CycleTheme, k.Help, k.Quit},
	}
}
