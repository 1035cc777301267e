package pacing

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/logging"
)

const (
	// goodFrameTolerance is how far dt may sit from the target (seconds)
	// and still count as a healthy frame.
	goodFrameTolerance = 0.001

	// lockStreak is the number of consecutive good frames needed to
	// trust the clock again.
	lockStreak = 2

	// droppedFrameFactor marks a frame as dropped when dt exceeds
	// target * droppedFrameFactor.
	droppedFrameFactor = 1.3
)

// IsGoodFrame reports whether dt is within tolerance of the target interval.
func IsGoodFrame(target, dt float64) bool {
	return math.Abs(target-dt) < goodFrameTolerance
}

// HysteresisPhase is the lock state of a CatchUp entity.
type HysteresisPhase int

const (
	PhaseUnsynced HysteresisPhase = iota
	PhaseRecovering
	PhaseLocked
)

// String returns a human-readable name for the phase.
func (p HysteresisPhase) String() string {
	switch p {
	case PhaseUnsynced:
		return "unsynced"
	case PhaseRecovering:
		return "recovering"
	case PhaseLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Phase derives the lock state from an entity's accumulator and the number
// of frames it has advanced. Any frame, good or bad, leaves Unsynced.
func Phase(st *core.AccumulatorState, frames uint64) HysteresisPhase {
	switch {
	case frames == 0:
		return PhaseUnsynced
	case st.GoodFrameStreak >= lockStreak:
		return PhaseLocked
	default:
		return PhaseRecovering
	}
}

// CatchUp is the hysteresis catch-up strategy.
//
// Two consecutive frames within tolerance of the target lock the entity to
// the ideal grid: the accumulator is discarded and simTime advances by
// exactly one target interval. Any other frame integrates the raw dt.
// Afterwards the accumulator is drained into simTime in whole target steps.
type CatchUp struct {
	target float64
	logger *log.Logger
}

// NewCatchUp creates a hysteresis catch-up strategy.
func NewCatchUp(target float64, logger *log.Logger) *CatchUp {
	return &CatchUp{target: targetOrDefault(target), logger: logging.OrDiscard(logger)}
}

func (*CatchUp) ID() string    { return IDCatchUp }
func (*CatchUp) Title() string { return "Catch up (hysteresis)" }

// Advance consumes one frame.
func (c *CatchUp) Advance(d core.FrameDelta, st *core.AccumulatorState) float64 {
	dt := d.DT

	if IsGoodFrame(c.target, dt) {
		if st.GoodFrameStreak < math.MaxUint32 {
			st.GoodFrameStreak++
		}
		if st.GoodFrameStreak >= lockStreak {
			if st.GoodFrameStreak == lockStreak {
				c.logger.Info("locking frame rate again")
			}
			st.Accumulated = 0
			st.SimTime += c.target
		} else {
			// still recovering
			st.Accumulated += dt
		}
	} else {
		st.GoodFrameStreak = 0
		c.logger.Info(
			"wacko frame rate",
			"ms", roundTenth(dt*1000),
			"hz", roundTenth(1/dt),
		)
		st.Accumulated += dt
	}

	for st.Accumulated > c.target {
		st.SimTime += c.target
		st.Accumulated -= c.target
	}

	return st.SimTime
}

// CatchUpSimple inserts one extra step whenever a frame looks dropped.
// Every frame advances by the target at least once, so it is not
// idempotent for dt = 0 and it never resyncs to real elapsed time.
type CatchUpSimple struct {
	target float64
	logger *log.Logger
}

// NewCatchUpSimple creates the single-step catch-up strategy.
func NewCatchUpSimple(target float64, logger *log.Logger) *CatchUpSimple {
	return &CatchUpSimple{target: targetOrDefault(target), logger: logging.OrDiscard(logger)}
}

func (*CatchUpSimple) ID() string    { return IDCatchUpSimple }
func (*CatchUpSimple) Title() string { return "Catch up (simple)" }

// Advance consumes one frame.
func (c *CatchUpSimple) Advance(d core.FrameDelta, st *core.AccumulatorState) float64 {
	if d.DT > c.target*droppedFrameFactor {
		c.logger.Info("dropped frame, catching up", "ms", roundTenth(d.DT*1000))
		st.SimTime += c.target
	}

	st.SimTime += c.target
	return st.SimTime
}

func roundTenth(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Round(v*10) / 10
}
