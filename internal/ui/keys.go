package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the bindings shown in the help line
type keyMap struct {
	AddFriend key.Binding
	Clear     key.Binding
	History   key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		AddFriend: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add friend"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddFriend, k.Clear, k.History, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
