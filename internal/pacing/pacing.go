// Package pacing implements the timestep-recovery strategies that turn an
// irregular measured frame delta into a simulation time.
//
// Every strategy is stateless; the per-entity AccumulatorState is passed in
// on each call. Strategies register with the registry on init, so importing
// this package for side effects makes all of them available:
//
//	import _ "github.com/vovakirdan/stutterlab/internal/pacing"
package pacing

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/registry"
)

// Strategy IDs.
const (
	IDStartup       = "startup"
	IDDelta         = "delta"
	IDFixed         = "fixed"
	IDCatchUp       = "catchup"
	IDCatchUpSimple = "catchup_simple"
	IDGolden        = "golden"
)

func init() {
	registry.Register(IDStartup, func(cfg core.PacingConfig, l *log.Logger) registry.Strategy {
		return NewStartupRelative()
	})
	registry.Register(IDDelta, func(cfg core.PacingConfig, l *log.Logger) registry.Strategy {
		return NewDeltaAccumulate()
	})
	registry.Register(IDFixed, func(cfg core.PacingConfig, l *log.Logger) registry.Strategy {
		return NewFixedStep(cfg.TargetInterval)
	})
	registry.Register(IDCatchUp, func(cfg core.PacingConfig, l *log.Logger) registry.Strategy {
		return NewCatchUp(cfg.TargetInterval, l)
	})
	registry.Register(IDCatchUpSimple, func(cfg core.PacingConfig, l *log.Logger) registry.Strategy {
		return NewCatchUpSimple(cfg.TargetInterval, l)
	})
	registry.Register(IDGolden, func(cfg core.PacingConfig, l *log.Logger) registry.Strategy {
		return NewGoldenStep(l)
	})
}

func targetOrDefault(target float64) float64 {
	if target <= 0 {
		return core.DefaultPacingConfig().TargetInterval
	}
	return target
}

// StartupRelative derives simTime from absolute elapsed time.
// It has no notion of frames and serves as the control lane.
type StartupRelative struct{}

// NewStartupRelative creates the control strategy.
func NewStartupRelative() *StartupRelative { return &StartupRelative{} }

func (*StartupRelative) ID() string    { return IDStartup }
func (*StartupRelative) Title() string { return "Time since startup" }

// Advance sets simTime to the elapsed time since start.
func (*StartupRelative) Advance(d core.FrameDelta, st *core.AccumulatorState) float64 {
	st.SimTime = d.Elapsed
	return st.SimTime
}

// DeltaAccumulate integrates the measured dt directly.
// A stalled frame shows up as a single visible jump.
type DeltaAccumulate struct{}

// NewDeltaAccumulate creates a raw delta integrator.
func NewDeltaAccumulate() *DeltaAccumulate { return &DeltaAccumulate{} }

func (*DeltaAccumulate) ID() string    { return IDDelta }
func (*DeltaAccumulate) Title() string { return "Delta time" }

// Advance adds dt to the accumulator and reports it as simTime.
func (*DeltaAccumulate) Advance(d core.FrameDelta, st *core.AccumulatorState) float64 {
	st.Accumulated += d.DT
	st.SimTime = st.Accumulated
	return st.SimTime
}

// FixedStep adds the target interval every frame regardless of dt.
// Motion stays smooth but drifts from wall-clock time and never corrects.
type FixedStep struct {
	target float64
}

// NewFixedStep creates a fixed-step strategy. A non-positive target uses 1/60 s.
func NewFixedStep(target float64) *FixedStep {
	return &FixedStep{target: targetOrDefault(target)}
}

func (*FixedStep) ID() string    { return IDFixed }
func (*FixedStep) Title() string { return "Fixed delta time" }

// Advance adds one target interval.
func (f *FixedStep) Advance(_ core.FrameDelta, st *core.AccumulatorState) float64 {
	st.Accumulated += f.target
	st.SimTime = st.Accumulated
	return st.SimTime
}
