// Package clock provides the monotonic time source the testbed measures
// frame deltas and stall durations against.
package clock

import "time"

// Clock provides time operations that can be replaced in tests.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Real uses the standard time package. time.Time values carry a monotonic
// reading, so Since is immune to wall-clock adjustments.
type Real struct{}

func (Real) Now() time.Time                  { return time.Now() }
func (Real) Since(t time.Time) time.Duration { return time.Since(t) }

// Fake is a manually advanced clock for tests.
type Fake struct {
	current time.Time
	step    time.Duration
}

// NewFake creates a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{current: start}
}

// SetAutoAdvance makes every Now call advance the clock by step first.
// Useful for driving busy-wait loops to completion.
func (f *Fake) SetAutoAdvance(step time.Duration) { f.step = step }

func (f *Fake) Now() time.Time {
	f.current = f.current.Add(f.step)
	return f.current
}

func (f *Fake) Since(t time.Time) time.Duration { return f.Now().Sub(t) }
func (f *Fake) Advance(d time.Duration)         { f.current = f.current.Add(d) }
func (f *Fake) Set(t time.Time)                 { f.current = t }
