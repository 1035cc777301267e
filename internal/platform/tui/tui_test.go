package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/stutterlab/internal/config"
	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/pacing"
	"github.com/vovakirdan/stutterlab/internal/stutter"
	"github.com/vovakirdan/stutterlab/internal/testbed"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestDriver(t *testing.T, ids ...string) *testbed.Driver {
	t.Helper()
	update := stutter.New(stutter.StageUpdate)
	render := stutter.New(stutter.StageRender)
	d := testbed.New(core.DefaultPacingConfig(), update, render, nil)
	for _, id := range ids {
		if _, err := d.Spawn(id); err != nil {
			t.Fatalf("Spawn(%q) failed: %v", id, err)
		}
	}
	return d
}

func TestLaneColumn(t *testing.T) {
	tests := []struct {
		x     float32
		track int
		want  int
	}{
		{-500, 51, 0},
		{0, 51, 25},
		{500, 51, 50},
		{900, 51, 50}, // Clamped right
		{-900, 51, 0}, // Clamped left
		{250, 1, 0},   // Degenerate track
	}

	for _, tt := range tests {
		if got := laneColumn(tt.x, 500, tt.track); got != tt.want {
			t.Errorf("laneColumn(%v, 500, %d) = %d, expected %d", tt.x, tt.track, got, tt.want)
		}
	}

	if got := laneColumn(100, 0, 40); got != 0 {
		t.Errorf("laneColumn with zero amplitude = %d, expected 0", got)
	}
}

func TestScreenHeight(t *testing.T) {
	if got := ScreenHeight(0); got != 1 {
		t.Errorf("ScreenHeight(0) = %d, expected 1", got)
	}
	if got := ScreenHeight(6); got != 11 {
		t.Errorf("ScreenHeight(6) = %d, expected 11", got)
	}
}

func TestDrawLanesPlacesSprites(t *testing.T) {
	snap := testbed.Snapshot{Lanes: []testbed.LaneState{
		{Lane: 0, Title: "left", X: -500},
		{Lane: 1, Title: "right", X: 500},
	}}

	s := core.NewScreen(labelWidth+11, ScreenHeight(2))
	DrawLanes(s, snap, 500)

	if got := s.Get(labelWidth, 0); got != sprite {
		t.Errorf("lane 0 sprite cell = %q, expected %q", got, sprite)
	}
	if got := s.Get(labelWidth+10, 2); got != sprite {
		t.Errorf("lane 1 sprite cell = %q, expected %q", got, sprite)
	}
	if got := s.Get(labelWidth+5, 0); got != trackRune {
		t.Errorf("track cell = %q, expected %q", got, trackRune)
	}
	if !strings.HasPrefix(s.String(), "left") {
		t.Errorf("expected lane label at row start, got %q", strings.SplitN(s.String(), "\n", 2)[0])
	}
}

func TestToggleStutterParksAndRestores(t *testing.T) {
	inj := stutter.New(stutter.StageUpdate)
	inj.Attach(stutter.DefaultConfig())
	inj.Attach(stutter.Config{Probability: 0.5, DurationMillis: 4})

	parked := toggleStutter(inj, nil)
	if len(parked) != 2 {
		t.Fatalf("parked %d configs, expected 2", len(parked))
	}
	if n := len(inj.Attachments()); n != 0 {
		t.Errorf("injector still has %d attachments", n)
	}

	parked = toggleStutter(inj, parked)
	if parked != nil {
		t.Errorf("expected nil after restore, got %v", parked)
	}
	got := inj.Attachments()
	if len(got) != 2 || got[1].Config.DurationMillis != 4 {
		t.Errorf("restored attachments = %+v", got)
	}

	if toggleStutter(nil, nil) != nil {
		t.Error("toggleStutter(nil) should be a no-op")
	}
}

func TestModelTickAdvancesUnlessPaused(t *testing.T) {
	d := newTestDriver(t, pacing.IDFixed)
	m := NewModel(d, core.DefaultConfig(), "none")

	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	if got := d.Recorder().Frames(); got != 1 {
		t.Fatalf("frames after tick = %d, expected 1", got)
	}

	next, _ = m.Update(runeKey(' '))
	m = next.(Model)
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if got := d.Recorder().Frames(); got != 1 {
		t.Errorf("frames while paused = %d, expected 1", got)
	}

	next, _ = m.Update(runeKey('r'))
	m = next.(Model)
	if got := d.Recorder().Frames(); got != 0 {
		t.Errorf("frames after reset = %d, expected 0", got)
	}
	_ = m
}

func TestModelToggleKeys(t *testing.T) {
	d := newTestDriver(t, pacing.IDDelta)
	d.UpdateInjector().Attach(stutter.Config{})
	d.RenderInjector().Attach(stutter.Config{})
	m := NewModel(d, core.DefaultConfig(), "none")

	next, _ := m.Update(runeKey('u'))
	m = next.(Model)
	if n := len(d.UpdateInjector().Attachments()); n != 0 {
		t.Errorf("update attachments after toggle = %d, expected 0", n)
	}
	if n := len(d.RenderInjector().Attachments()); n != 1 {
		t.Errorf("render attachments changed to %d", n)
	}

	next, _ = m.Update(runeKey('i'))
	m = next.(Model)
	if n := len(d.RenderInjector().Attachments()); n != 0 {
		t.Errorf("render attachments after toggle = %d, expected 0", n)
	}

	next, _ = m.Update(runeKey('u'))
	m = next.(Model)
	if n := len(d.UpdateInjector().Attachments()); n != 1 {
		t.Errorf("update attachments after second toggle = %d, expected 1", n)
	}
	_ = m
}

func TestModelBack(t *testing.T) {
	d := newTestDriver(t, pacing.IDDelta)

	standalone := NewModel(d, core.DefaultConfig(), "none")
	next, cmd := standalone.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || !next.(Model).quitting {
		t.Error("esc in standalone mode should quit")
	}

	embedded := NewModel(d, core.DefaultConfig(), "none").Embedded()
	next, _ = embedded.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(Model).IsGoingBack() {
		t.Error("esc in embedded mode should go back")
	}
}

func TestModelViewShowsLanes(t *testing.T) {
	d := newTestDriver(t, pacing.IDCatchUp, pacing.IDGolden)
	m := NewModel(d, core.DefaultConfig(), "default")
	next, _ := m.Update(TickMsg{})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "stutterlab") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, pacing.IDCatchUp) {
		t.Error("view missing stats row for catchup")
	}
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(80)

	next, _ := m.Update(runeKey('k'))
	m = next.(MenuModel)
	if m.cursor != 0 {
		t.Errorf("cursor moved above top: %d", m.cursor)
	}

	for range 10 {
		next, _ = m.Update(runeKey('j'))
		m = next.(MenuModel)
	}
	if m.cursor != len(config.Presets())-1 {
		t.Errorf("cursor = %d, expected clamp at %d", m.cursor, len(config.Presets())-1)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if sel := m.Selected(); sel == nil || *sel != config.PresetHarsh {
		t.Errorf("Selected() = %v, expected harsh", sel)
	}

	m.ClearSelection()
	if m.Selected() != nil {
		t.Error("selection not cleared")
	}
}

func TestSessionMenuToTestbedAndBack(t *testing.T) {
	base := config.DefaultTestbedConfig()
	base.Entities = []string{pacing.IDFixed}
	cfg := core.DefaultConfig()
	cfg.Seed = 1

	s := NewSessionModel(base, cfg, nil, nil)

	// First entry is the "none" preset so no real stalls happen.
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.testbed == nil {
		t.Fatal("expected testbed after selecting a preset")
	}
	if s.preset != config.PresetNone {
		t.Errorf("preset = %q, expected none", s.preset)
	}
	if n := len(s.driver.UpdateInjector().Attachments()); n != 0 {
		t.Errorf("none preset attached %d update configs", n)
	}

	next, _ = s.Update(TickMsg{})
	s = next.(SessionModel)
	if got := s.driver.Recorder().Frames(); got != 1 {
		t.Errorf("frames = %d, expected 1", got)
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.testbed != nil {
		t.Error("expected menu after going back")
	}
	if !strings.Contains(s.View(), "pick a stutter preset") {
		t.Error("menu view not shown after going back")
	}
}

// countingWaiter counts stalls without blocking.
type countingWaiter struct{ n int }

func (w *countingWaiter) Wait(time.Duration) { w.n++ }

type alwaysStall struct{}

func (alwaysStall) Float32() float32 { return 0 }

func TestRenderStutterOncePerTick(t *testing.T) {
	waiter := &countingWaiter{}
	render := stutter.New(stutter.StageRender, stutter.WithRandom(alwaysStall{}), stutter.WithWaiter(waiter))
	if _, err := render.Attach(stutter.Config{Probability: 1, DurationMillis: 1}); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}
	d := testbed.New(core.DefaultPacingConfig(), nil, render, nil)
	if _, err := d.Spawn(pacing.IDFixed); err != nil {
		t.Fatalf("Spawn() failed: %v", err)
	}

	m := NewModel(d, core.DefaultConfig(), "none")
	m.View()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	m.View()
	next, _ = m.Update(runeKey('?'))
	m = next.(Model)
	m.View()
	if waiter.n != 0 {
		t.Fatalf("render stalls before any tick = %d, expected 0", waiter.n)
	}

	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	for range 3 {
		m.View()
	}
	if waiter.n != 1 {
		t.Errorf("render stalls after one tick = %d, expected 1", waiter.n)
	}
	if m.snap.Frame != 1 || len(m.snap.Lanes) != 1 {
		t.Errorf("stored snapshot = frame %d with %d lanes, expected frame 1 with 1 lane", m.snap.Frame, len(m.snap.Lanes))
	}
}
