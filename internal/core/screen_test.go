package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGetCell(t *testing.T) {
	s := NewScreen(10, 5)

	s.Set(3, 2, '@', ColorCyan)
	cell := s.GetCell(3, 2)
	if cell.Rune != '@' || cell.Color != ColorCyan {
		t.Errorf("GetCell(3, 2) = %+v, expected '@' in cyan", cell)
	}

	// Out of bounds writes are ignored
	s.Set(-1, 0, 'A', ColorRed)
	s.Set(10, 0, 'A', ColorRed)
	s.Set(0, 5, 'A', ColorRed)

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(12, 1)
	s.DrawText(2, 0, "golden", ColorYellow)

	if got := s.String(); got != "  golden    " {
		t.Errorf("String() = %q", got)
	}
	if s.GetCell(2, 0).Color != ColorYellow {
		t.Error("text should carry its color")
	}
}

func TestScreenClearAndResize(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawHLine(0, 0, 4, '-', ColorGray)
	s.Clear()

	if strings.TrimSpace(s.String()) != "" {
		t.Errorf("Clear() left content: %q", s.String())
	}

	s.Resize(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Errorf("Resize() = %dx%d, expected 6x3", s.Width(), s.Height())
	}
	if lines := strings.Split(s.String(), "\n"); len(lines) != 3 {
		t.Errorf("expected 3 rows, got %d", len(lines))
	}
}

func TestLaneColorCycles(t *testing.T) {
	if LaneColor(0) != LaneColor(len(laneColors)) {
		t.Error("LaneColor should cycle")
	}
	if LaneColor(0) == LaneColor(1) {
		t.Error("adjacent lanes should differ")
	}
}
