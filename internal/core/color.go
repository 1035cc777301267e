package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// laneColors cycles through distinguishable colors for sprite lanes.
var laneColors = []Color{
	ColorCyan,
	ColorYellow,
	ColorGreen,
	ColorMagenta,
	ColorOrange,
	ColorBlue,
	ColorRed,
}

// LaneColor returns the color for the lane at index i.
func LaneColor(i int) Color {
	if i < 0 {
		i = -i
	}
	return laneColors[i%len(laneColors)]
}
