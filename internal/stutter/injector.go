package stutter

import (
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/xid"

	"github.com/vovakirdan/stutterlab/internal/logging"
)

// RandomSource yields uniform samples in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float32() float32
}

// NewRandomSource returns a seeded source. Seed 0 uses the current time.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Attachment is a config attached to a stage under a handle.
type Attachment struct {
	ID     xid.ID
	Config Config
}

// Stats counts injector activity.
type Stats struct {
	Checks  uint64        // Random draws made
	Stalls  uint64        // Draws that led to a stall
	Stalled time.Duration // Total requested stall time
}

// Injector gates one pipeline stage. Each stage gets its own injector
// with its own random stream and waiter.
type Injector struct {
	stage  Stage
	rng    RandomSource
	waiter Waiter
	logger *log.Logger

	mu          sync.Mutex
	attachments []Attachment
	stats       Stats
}

// Option configures an Injector.
type Option func(*Injector)

// WithRandom sets the random source.
func WithRandom(r RandomSource) Option {
	return func(i *Injector) { i.rng = r }
}

// WithWaiter sets how stalls block.
func WithWaiter(w Waiter) Option {
	return func(i *Injector) { i.waiter = w }
}

// WithLogger sets the logger for stall records.
func WithLogger(l *log.Logger) Option {
	return func(i *Injector) { i.logger = l }
}

// New creates an injector for a stage. Without options it draws from a
// time-seeded source and busy-waits on the real clock.
func New(stage Stage, opts ...Option) *Injector {
	inj := &Injector{stage: stage}
	for _, opt := range opts {
		opt(inj)
	}
	if inj.rng == nil {
		inj.rng = NewRandomSource(0)
	}
	if inj.waiter == nil {
		inj.waiter = NewBusyWaiter(nil)
	}
	inj.logger = logging.OrDiscard(inj.logger)
	return inj
}

// Stage returns the stage this injector gates.
func (i *Injector) Stage() Stage { return i.stage }

// MaybeStall draws one sample and, with cfg.Probability, blocks for the
// configured duration. It reports whether a stall happened. A stall is
// never cancelled once started.
func (i *Injector) MaybeStall(cfg Config) bool {
	i.mu.Lock()
	u := i.rng.Float32()
	i.stats.Checks++
	stall := u < cfg.Probability
	if stall {
		i.stats.Stalls++
		i.stats.Stalled += cfg.Duration()
	}
	i.mu.Unlock()

	if !stall {
		return false
	}

	i.logger.Info("sleeping", "millis", cfg.DurationMillis, "stage", i.stage.String())
	i.waiter.Wait(cfg.Duration())
	return true
}

// Attach validates a config, adds it to this stage and returns its handle.
// An invalid config is rejected with an error wrapping ErrInvalidConfig.
func (i *Injector) Attach(cfg Config) (xid.ID, error) {
	if err := cfg.Validate(); err != nil {
		return xid.NilID(), err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	id := xid.New()
	i.attachments = append(i.attachments, Attachment{ID: id, Config: cfg})
	return id, nil
}

// Detach removes an attachment. It reports whether the handle was known.
func (i *Injector) Detach(id xid.ID) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	for idx, a := range i.attachments {
		if a.ID == id {
			i.attachments = append(i.attachments[:idx], i.attachments[idx+1:]...)
			return true
		}
	}
	return false
}

// DetachAll removes every attachment.
func (i *Injector) DetachAll() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.attachments = nil
}

// Attachments returns a copy of the current attachments in attach order.
func (i *Injector) Attachments() []Attachment {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]Attachment, len(i.attachments))
	copy(out, i.attachments)
	return out
}

// Run checks every attached config once, in attach order, and returns
// how many stalled. With nothing attached it is a no-op.
func (i *Injector) Run() int {
	stalls := 0
	for _, a := range i.Attachments() {
		if i.MaybeStall(a.Config) {
			stalls++
		}
	}
	return stalls
}

// Stats returns a snapshot of the injector counters.
func (i *Injector) Stats() Stats {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stats
}

// ResetStats zeroes the counters.
func (i *Injector) ResetStats() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stats = Stats{}
}
