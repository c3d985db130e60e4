package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings of the selection screen. It satisfies help.KeyMap.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Collapse   key.Binding
	Expand     key.Binding
	TreeToggle key.Binding
	Export     key.Binding
	Dismiss    key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "include/exclude"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		TreeToggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tree block"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss error"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Toggle, keys.Expand, keys.Collapse, keys.TreeToggle, keys.Export, keys.Quit}
}

func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down, keys.Collapse, keys.Expand},
		{keys.Toggle, keys.TreeToggle, keys.Export, keys.Dismiss, keys.Quit},
	}
}
