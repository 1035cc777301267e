package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/testbed"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Lane layout
const (
	labelWidth  = 24 // Strategy title column
	laneSpacing = 2  // Rows per lane
	sprite      = '█'
	trackRune   = '·'
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// laneColumn maps a position in [-amplitude, amplitude] to a track column.
func laneColumn(x, amplitude float32, track int) int {
	if track <= 1 || amplitude == 0 {
		return 0
	}
	norm := (x/amplitude + 1) / 2
	col := int(norm*float32(track-1) + 0.5)
	if col < 0 {
		return 0
	}
	if col > track-1 {
		return track - 1
	}
	return col
}

// ScreenHeight returns the rows needed to draw n lanes.
func ScreenHeight(lanes int) int {
	if lanes <= 0 {
		return 1
	}
	return lanes*laneSpacing - 1
}

// DrawLanes draws one track per lane with the sprite at its extracted position.
func DrawLanes(dst *core.Screen, snap testbed.Snapshot, amplitude float32) {
	dst.Clear()
	track := dst.Width() - labelWidth
	if track < 1 {
		track = 1
	}

	for i, l := range snap.Lanes {
		y := i * laneSpacing
		color := core.LaneColor(l.Lane)

		label := l.Title
		if l.Phase != "" {
			label = fmt.Sprintf("%s [%s]", l.Title, l.Phase)
		}
		if len(label) > labelWidth-1 {
			label = label[:labelWidth-1]
		}
		dst.DrawText(0, y, label, color)

		dst.DrawHLine(labelWidth, y, track, trackRune, core.ColorGray)
		dst.Set(labelWidth+laneColumn(l.X, amplitude, track), y, sprite, color)
	}
}
