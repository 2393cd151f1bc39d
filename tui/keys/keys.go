package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Escape   key.Binding
	Tab      key.Binding
	BackTab  key.Binding
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab4     key.Binding
	Sort     key.Binding

	// Logs
	Filter       key.Binding
	Priority     key.Binding
	MoreLines    key.Binding
	FewerLines   key.Binding
	Scope        key.Binding
	Authenticate key.Binding
}

// DefaultKeyMap provides the default set of key bindings.
var DefaultKeyMap = KeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Tab:      key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
	BackTab:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "previous tab")),
	Tab1:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "system")),
	Tab2:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "hardware")),
	Tab3:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "network")),
	Tab4:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "logs")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort processes")),

	Filter:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
	Priority:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next priority")),
	MoreLines:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more lines")),
	FewerLines:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer lines")),
	Scope:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "system/user")),
	Authenticate: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "authenticate")),
}
