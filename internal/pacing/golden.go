package pacing

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/logging"
)

// Golden sub-step parameters: a 240 Hz base step, bounded to 1..8 steps per
// frame (240 Hz down to 30 Hz).
const (
	GoldenBaseRate = 240.0
	GoldenMinSteps = 1
	GoldenMaxSteps = 8
)

// StepCount returns the number of 240 Hz sub-steps a frame of dt seconds
// is worth, rounded and clamped to [GoldenMinSteps, GoldenMaxSteps].
func StepCount(dt float64) int {
	raw := math.Round(dt * GoldenBaseRate)
	switch {
	case math.IsNaN(raw) || raw < GoldenMinSteps:
		return GoldenMinSteps
	case raw > GoldenMaxSteps:
		return GoldenMaxSteps
	default:
		return int(raw)
	}
}

// GoldenStep advances simTime by a bounded number of 240 Hz sub-steps.
// A single frame can never demand more than 8 sub-steps nor fewer than 1.
type GoldenStep struct {
	logger *log.Logger
}

// NewGoldenStep creates the adaptive sub-stepping strategy.
func NewGoldenStep(logger *log.Logger) *GoldenStep {
	return &GoldenStep{logger: logging.OrDiscard(logger)}
}

func (*GoldenStep) ID() string    { return IDGolden }
func (*GoldenStep) Title() string { return "Golden 4 1/6 (sub-step)" }

// Advance consumes one frame.
func (g *GoldenStep) Advance(d core.FrameDelta, st *core.AccumulatorState) float64 {
	g.logger.Debug("delta updates", "raw", d.DT*GoldenBaseRate)

	st.SimTime += float64(StepCount(d.DT)) / GoldenBaseRate
	return st.SimTime
}
