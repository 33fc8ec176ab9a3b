package tui

import "github.com/charmbracelet/bubbles/key"

// menuKeyMap defines key bindings while the settings menu is shown
type menuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Delete key.Binding
	Edit   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Delete, k.Edit, k.Quit},
	}
}

// captureKeyMap defines key bindings while text is being entered
type captureKeyMap struct {
	Commit    key.Binding
	Cancel    key.Binding
	Backspace key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k captureKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Cancel, k.Backspace}
}

// FullHelp returns keybindings for the expanded help view
func (k captureKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// terminalKeyMap defines key bindings while the terminal is shown
type terminalKeyMap struct {
	Settings   key.Binding
	Connect    key.Binding
	Gateway    key.Binding
	Disconnect key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k terminalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Settings, k.Connect, k.Gateway, k.Disconnect, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k terminalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newMenuKeyMap() menuKeyMap {
	return menuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "left", "k", "h"),
			key.WithHelp("↑/←", "prev / less"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "right", "j", "l"),
			key.WithHelp("↓/→", "next / more"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc/q", "back"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete network"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit password"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

func newCaptureKeyMap() captureKeyMap {
	return captureKeyMap{
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "delete"),
			key.WithHelp("⌫", "erase"),
		),
	}
}

func newTerminalKeyMap() terminalKeyMap {
	return terminalKeyMap{
		Settings: key.NewBinding(
			key.WithKeys("ctrl+s", "f2"),
			key.WithHelp("ctrl+s", "settings"),
		),
		Connect: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "ssh"),
		),
		Gateway: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "gateway"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "disconnect"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}
