package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding
	Details    key.Binding
	Escape     key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Player
	PlaySelected  key.Binding
	TogglePlay    key.Binding
	Next          key.Binding
	Previous      key.Binding
	ToggleShuffle key.Binding
	ToggleLoop    key.Binding
	Clear         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload episodes"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Episode details"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close details"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),

		// Player
		PlaySelected: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Play from here"),
		),
		TogglePlay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next episode"),
		),
		Previous: key.NewBinding(
			key.WithKeys("b", "p"),
			key.WithHelp("b/p", "Previous episode"),
		),
		ToggleShuffle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Shuffle (1 ep repeats)"),
		),
		ToggleLoop: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle loop"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear player"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.Top, k.Bottom, k.PageDown, k.PageUp},
		// Player
		{k.PlaySelected, k.TogglePlay, k.Next, k.Previous, k.ToggleShuffle, k.ToggleLoop, k.Clear},
		// General
		{k.Details, k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
