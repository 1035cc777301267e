package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/stutterlab/internal/config"
)

// presetDescriptions explains each preset in the picker.
var presetDescriptions = map[config.Preset]string{
	config.PresetNone:    "no injected stalls",
	config.PresetCalm:    "rare 16ms update stalls",
	config.PresetDefault: "4% update stalls, very rare render stalls",
	config.PresetHarsh:   "frequent update and render stalls",
}

// MenuModel is the Bubble Tea model for the stutter preset picker.
type MenuModel struct {
	items    []config.Preset
	cursor   int
	width    int
	quitting bool
	selected *config.Preset // Set when user selects a preset
}

// NewMenuModel creates a new preset picker.
func NewMenuModel(width int) MenuModel {
	return MenuModel{
		items: config.Presets(),
		width: width,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch MapKeyToMenuAction(msg.String()) {
		case MenuActionQuit:
			m.quitting = true
			return m, tea.Quit
		case MenuActionUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case MenuActionDown:
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case MenuActionSelect:
			p := m.items[m.cursor]
			m.selected = &p
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// View renders the preset list.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("stutterlab"))
	sb.WriteString(statusStyle.Render("  pick a stutter preset"))
	sb.WriteString("\n\n")

	for i, p := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, p, presetDescriptions[p])
		if i == m.cursor {
			line = titleStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render("enter select · q quit"))
	return sb.String()
}

// Selected returns the chosen preset, or nil.
func (m MenuModel) Selected() *config.Preset { return m.selected }

// IsQuitting reports whether the user quit the menu.
func (m MenuModel) IsQuitting() bool { return m.quitting }

// ClearSelection resets the menu for the next pick.
func (m *MenuModel) ClearSelection() { m.selected = nil }
