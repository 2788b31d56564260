package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
	Enter     key.Binding
	Add       key.Binding
	Edit      key.Binding
	Duplicate key.Binding
	Delete    key.Binding
	Search    key.Binding
	Progress  key.Binding
	Dismiss   key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	Confirm   key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous stage")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next stage")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	ShiftTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details/save")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add project")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Duplicate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "duplicate")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Progress:  key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "progress ±10")),
	Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss notification")),
	Refresh:   key.NewBinding(key.WithKeys("R", "r"), key.WithHelp("R", "refresh")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Confirm:   key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
}
