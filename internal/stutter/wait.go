package stutter

import (
	"time"

	"github.com/vovakirdan/stutterlab/internal/clock"
)

// Waiter blocks the calling goroutine for a duration.
type Waiter interface {
	Wait(d time.Duration)
}

// BusyWaiter spins against a monotonic clock without yielding, so the
// calling stage stays genuinely occupied for the whole stall.
type BusyWaiter struct {
	Clock clock.Clock
}

// NewBusyWaiter creates a spinning waiter on the given clock (real if nil).
func NewBusyWaiter(c clock.Clock) *BusyWaiter {
	if c == nil {
		c = clock.Real{}
	}
	return &BusyWaiter{Clock: c}
}

// Wait spins until d has elapsed.
func (w *BusyWaiter) Wait(d time.Duration) {
	start := w.Clock.Now()
	for w.Clock.Since(start) < d {
		// spin
	}
}

// SleepWaiter parks the goroutine with time.Sleep.
// It is lighter on CPU but only as precise as the scheduler and timer
// granularity, and the stage is not occupied while it sleeps.
type SleepWaiter struct{}

// Wait sleeps for d.
func (SleepWaiter) Wait(d time.Duration) {
	time.Sleep(d)
}

// WaitMode selects a Waiter by name.
type WaitMode string

const (
	WaitBusy  WaitMode = "busy"
	WaitSleep WaitMode = "sleep"
)

// NewWaiter returns the waiter for a mode. Unknown modes busy-wait.
func NewWaiter(mode WaitMode, c clock.Clock) Waiter {
	if mode == WaitSleep {
		return SleepWaiter{}
	}
	return NewBusyWaiter(c)
}
