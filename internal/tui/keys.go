package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the picker
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Navigation
	Up      key.Binding
	Down    key.Binding
	GotoTop key.Binding
	GotoEnd key.Binding
	Open    key.Binding // Click the row under the cursor
	GoBack  key.Binding
	Jump    key.Binding // Next letter jumps to the first matching entry
	Refresh key.Binding

	// Actions
	Scan    key.Binding
	Focus   key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		GotoTop: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		GotoEnd: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Open:    key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open/select")),
		GoBack:  key.NewBinding(key.WithKeys("backspace", "h", "left"), key.WithHelp("h", "back")),
		Jump:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/x", "jump to x")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),

		Scan:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		Confirm: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.GoBack, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.GotoTop, k.GotoEnd},
		{k.Open, k.GoBack, k.Jump, k.Refresh},
		{k.Scan, k.Focus, k.Confirm, k.Cancel},
		{k.Help, k.Quit},
	}
}
