package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// TestbedKeyMap defines the key bindings for the live testbed.
type TestbedKeyMap struct {
	Pause        key.Binding
	Reset        key.Binding
	ToggleUpdate key.Binding
	ToggleRender key.Binding
	ToggleHelp   key.Binding
	Back         key.Binding
	Quit         key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k TestbedKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.ToggleUpdate, k.ToggleRender, k.ToggleHelp, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k TestbedKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset},
		{k.ToggleUpdate, k.ToggleRender},
		{k.ToggleHelp, k.Back, k.Quit},
	}
}

// DefaultTestbedKeyMap returns default key bindings.
func DefaultTestbedKeyMap() TestbedKeyMap {
	return TestbedKeyMap{
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space/p", "pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset lanes"),
		),
		ToggleUpdate: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update stutter"),
		),
		ToggleRender: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "render stutter"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(k string) MenuAction {
	switch k {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	}
	return MenuActionNone
}
