package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding; the help overlay renders their help text.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Escape    key.Binding
	Quit      key.Binding
	Dashboard key.Binding
	Refresh   key.Binding
	Theme     key.Binding
	Stop      key.Binding
	Settings  key.Binding
	Help      key.Binding
}

var DefaultKeyMap = KeyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll log back")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll log forward")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "distance detail")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to dashboard")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q/ctrl+c", "quit")),
	Dashboard: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dashboard switcher")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh now")),
	Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next theme")),
	Stop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop session")),
	Settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
}
