package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings for the console
type keyMap struct {
	Submit     key.Binding
	HistoryUp  key.Binding
	HistoryDn  key.Binding
	Complete   key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.HistoryUp, k.ScrollUp, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Complete, k.HistoryUp, k.HistoryDn},
		{k.ScrollUp, k.ScrollDown, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		HistoryUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "history"),
		),
		HistoryDn: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "history next"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup/pgdn", "scroll"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+d", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}
