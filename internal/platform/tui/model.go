package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stutterlab/internal/clock"
	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/stutter"
	"github.com/vovakirdan/stutterlab/internal/testbed"
)

// Model is the Bubble Tea model for the live testbed.
//
// Each tick runs one driver frame: update stutter, every strategy, then
// extraction with render stutter. View only draws the stored snapshot, so
// redraws caused by keys or resizes never stall.
type Model struct {
	driver *testbed.Driver
	timer  *clock.FrameTimer
	screen *core.Screen
	config core.RuntimeConfig
	preset string
	keys   TestbedKeyMap
	help   help.Model

	updateParked []stutter.Config // Non-nil while update stutter is toggled off
	renderParked []stutter.Config // Non-nil while render stutter is toggled off

	snap testbed.Snapshot // Extracted once per tick; View only draws it

	paused    bool
	embedded  bool // Back returns to a parent model instead of quitting
	goingBack bool
	quitting  bool
}

// NewModel creates a live testbed model around a driver.
func NewModel(driver *testbed.Driver, cfg core.RuntimeConfig, preset string) Model {
	width := cfg.ScreenW
	if width <= 0 {
		width = core.DefaultConfig().ScreenW
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		driver: driver,
		timer:  clock.NewFrameTimer(clock.Real{}),
		screen: core.NewScreen(width, ScreenHeight(len(driver.Entities()))),
		config: cfg,
		preset: preset,
		keys:   DefaultTestbedKeyMap(),
		help:   h,
		snap:   driver.Snapshot(),
	}
}

// Embedded marks the model as hosted by a parent (e.g. an SSH session).
func (m Model) Embedded() Model {
	m.embedded = true
	return m
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, ScreenHeight(len(m.driver.Entities())))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if !m.embedded {
			m.quitting = true
			return m, tea.Quit
		}
		m.goingBack = true
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Reset):
		m.driver.Reset()
		m.timer.Restart()
		m.snap = m.driver.Snapshot()

	case key.Matches(msg, m.keys.ToggleUpdate):
		m.updateParked = toggleStutter(m.driver.UpdateInjector(), m.updateParked)

	case key.Matches(msg, m.keys.ToggleRender):
		m.renderParked = toggleStutter(m.driver.RenderInjector(), m.renderParked)

	case key.Matches(msg, m.keys.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// toggleStutter detaches every config from inj and returns them, or
// re-attaches previously parked configs and returns nil.
func toggleStutter(inj *stutter.Injector, parked []stutter.Config) []stutter.Config {
	if inj == nil {
		return nil
	}
	if parked != nil {
		for _, cfg := range parked {
			// Parked configs passed validation when first attached.
			_, _ = inj.Attach(cfg)
		}
		return nil
	}

	attached := inj.Attachments()
	saved := make([]stutter.Config, 0, len(attached))
	for _, a := range attached {
		saved = append(saved, a.Config)
	}
	inj.DetachAll()
	return saved
}

// handleTick runs one full frame: the update stage, then extraction,
// which is where render stutter happens.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// The timer keeps measuring while paused so resuming doesn't report
	// the whole pause as one frame.
	delta := m.timer.Tick()
	if !m.paused {
		m.snap = m.driver.Frame(delta)
	}
	return m, tickCmd(m.config.TickRate)
}

// IsGoingBack reports whether the user asked to leave the testbed.
func (m Model) IsGoingBack() bool { return m.goingBack }

// View draws the most recently extracted frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.snap
	DrawLanes(m.screen, snap, m.driver.Config().Amplitude)

	var sb strings.Builder
	sb.WriteString(m.header(snap))
	sb.WriteString("\n\n")
	sb.WriteString(RenderScreen(m.screen))
	sb.WriteString("\n\n")
	sb.WriteString(m.statsTable().View())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) header(snap testbed.Snapshot) string {
	fps := 0.0
	if snap.Delta.DT > 0 {
		fps = 1 / snap.Delta.DT
	}

	title := titleStyle.Render("stutterlab")
	if m.preset != "" {
		title += statusStyle.Render(" · " + m.preset)
	}

	status := statusStyle.Render(fmt.Sprintf(
		"frame %d  dt %.1fms (%.0fHz)  target %.0fHz",
		snap.Frame, snap.Delta.DT*1000, fps, m.driver.Config().TargetRate(),
	))

	parts := []string{title, status, m.stageStatus("update", m.driver.UpdateInjector(), m.updateParked != nil)}
	parts = append(parts, m.stageStatus("render", m.driver.RenderInjector(), m.renderParked != nil))
	if m.paused {
		parts = append(parts, alertStyle.Render("PAUSED"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) stageStatus(name string, inj *stutter.Injector, off bool) string {
	if inj == nil {
		return statusStyle.Render(name + ": -")
	}
	if off {
		return statusStyle.Render(name + ": off")
	}
	stats := inj.Stats()
	return statusStyle.Render(fmt.Sprintf("%s: %d stalls", name, stats.Stalls))
}

// statsTable renders per-strategy statistics with a bubbles table.
func (m Model) statsTable() table.Model {
	columns := []table.Column{
		{Title: "Strategy", Width: 16},
		{Title: "Sim time", Width: 10},
		{Title: "Drift ms", Width: 10},
		{Title: "Max jump ms", Width: 12},
	}

	stats := m.driver.Recorder().Stats()
	rows := make([]table.Row, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, table.Row{
			s.Label,
			fmt.Sprintf("%.3f", s.SimTime),
			fmt.Sprintf("%+.1f", s.Drift*1000),
			fmt.Sprintf("%.1f", s.MaxJump*1000),
		})
	}

	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()

	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2), // Header row plus its border
		table.WithFocused(false),
		table.WithStyles(styles),
	)
}

// Run starts the Bubble Tea program with a live testbed.
func Run(driver *testbed.Driver, cfg core.RuntimeConfig, preset string) error {
	p := tea.NewProgram(
		NewModel(driver, cfg, preset),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
