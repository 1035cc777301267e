package core

import "math"

// FrameDelta is the per-frame timing supplied by the time source.
// Strategies read it but never modify it.
type FrameDelta struct {
	DT      float64 // Seconds since the previous frame
	Elapsed float64 // Seconds since process start
}

// NewFrameDelta creates a FrameDelta from seconds.
func NewFrameDelta(dt, elapsed float64) FrameDelta {
	return FrameDelta{DT: dt, Elapsed: elapsed}
}

// Sanitize clamps negative or non-finite values to zero.
// The boolean is true when a value had to be clamped.
func (d FrameDelta) Sanitize() (FrameDelta, bool) {
	clamped := false
	if !validSeconds(d.DT) {
		d.DT = 0
		clamped = true
	}
	if !validSeconds(d.Elapsed) {
		d.Elapsed = 0
		clamped = true
	}
	return d, clamped
}

func validSeconds(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}

// AccumulatorState is the per-entity pacing state.
// Each entity owns exactly one, mutated only by its own strategy.
type AccumulatorState struct {
	Accumulated     float64 // Unconsumed simulated time
	SimTime         float64 // Simulation time used to derive Position
	GoodFrameStreak uint32  // Consecutive frames within tolerance of the target
}

// Reset zeroes the state, as if the entity was just spawned.
func (s *AccumulatorState) Reset() {
	*s = AccumulatorState{}
}

// Position maps a simulation time to a horizontal offset:
// sin(simTime * moveSpeed) * amplitude.
func Position(simTime float64, moveSpeed, amplitude float32) float32 {
	return float32(math.Sin(float64(float32(simTime)*moveSpeed))) * amplitude
}
