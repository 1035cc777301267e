package clock

import "time"

// spinWindow is the tail of each frame spent spinning instead of sleeping.
const spinWindow = 200 * time.Microsecond

// Limiter paces a loop to a fixed rate.
// It sleeps for most of the frame and spins for the final spinWindow.
type Limiter struct {
	clock  Clock
	target time.Duration
	next   time.Time
}

// NewLimiter creates a limiter for the given rate in Hz.
// A non-positive rate disables limiting.
func NewLimiter(c Clock, rate float64) *Limiter {
	if c == nil {
		c = Real{}
	}
	l := &Limiter{clock: c}
	if rate > 0 {
		l.target = time.Duration(float64(time.Second) / rate)
	}
	return l
}

// Interval returns the frame interval being held.
func (l *Limiter) Interval() time.Duration { return l.target }

// Wait blocks until the next frame boundary.
func (l *Limiter) Wait() {
	if l.target <= 0 {
		return
	}

	now := l.clock.Now()
	if l.next.IsZero() {
		l.next = now.Add(l.target)
	} else {
		l.next = l.next.Add(l.target)
	}

	for {
		remaining := l.next.Sub(l.clock.Now())
		if remaining <= 0 {
			break
		}
		if remaining > spinWindow {
			time.Sleep(remaining - spinWindow)
		}
	}

	// After a hitch, resync instead of bursting to catch up
	if late := l.clock.Since(l.next); late > l.target {
		l.next = l.clock.Now()
	}
}
