package clock

import (
	"time"

	"github.com/vovakirdan/stutterlab/internal/core"
)

// FrameTimer turns successive clock readings into FrameDelta values.
// The first Tick reports dt = 0.
type FrameTimer struct {
	clock Clock
	start time.Time
	last  time.Time
}

// NewFrameTimer starts a timer at the clock's current time.
func NewFrameTimer(c Clock) *FrameTimer {
	if c == nil {
		c = Real{}
	}
	now := c.Now()
	return &FrameTimer{clock: c, start: now}
}

// Tick measures the interval since the previous Tick.
func (t *FrameTimer) Tick() core.FrameDelta {
	now := t.clock.Now()

	var dt time.Duration
	if !t.last.IsZero() {
		dt = now.Sub(t.last)
	}
	t.last = now

	return core.NewFrameDelta(dt.Seconds(), now.Sub(t.start).Seconds())
}

// Restart resets the elapsed origin and forgets the previous tick.
func (t *FrameTimer) Restart() {
	t.start = t.clock.Now()
	t.last = time.Time{}
}
