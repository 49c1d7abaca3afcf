package tui

import "github.com/charmbracelet/bubbles/key"

// pageKeyMap defines key bindings for the promo page
type pageKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Unlock key.Binding
	Theme  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pageKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Unlock, k.Theme, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pageKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Unlock, k.Theme},
		{k.Help, k.Quit},
	}
}

func newPageKeyMap() pageKeyMap {
	return pageKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Unlock: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "show full code"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// discoverKeyMap defines key bindings for the discover screen
type discoverKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoverKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoverKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Rescan, k.Quit},
	}
}

func newDiscoverKeyMap() discoverKeyMap {
	return discoverKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open in browser"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
