package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	TogglePlay key.Binding
	Replay     key.Binding
	Upload     key.Binding
	Theme      key.Binding
	Cancel     key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TogglePlay, k.Replay, k.Upload, k.Theme, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TogglePlay, k.Replay},
		{k.Upload, k.Theme, k.Quit},
	}
}

var defaultKeyMap = keyMap{
	TogglePlay: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space/p", "play/pause"),
	),
	Replay: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "replay"),
	),
	Upload: key.NewBinding(
		key.WithKeys("u", "o"),
		key.WithHelp("u", "pick a track"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
