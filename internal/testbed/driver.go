// Package testbed runs the per-frame loop: update-stage stutter, pacing
// strategies, render-stage stutter, then position extraction.
package testbed

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/logging"
	"github.com/vovakirdan/stutterlab/internal/pacing"
	"github.com/vovakirdan/stutterlab/internal/registry"
	"github.com/vovakirdan/stutterlab/internal/stutter"
)

// Entity is one pacing lane: a strategy and the state only it touches.
type Entity struct {
	ID       xid.ID
	Lane     int
	Strategy registry.Strategy
	State    core.AccumulatorState
	Frames   uint64 // Frames advanced since spawn or reset
}

func (e *Entity) advance(delta core.FrameDelta) {
	e.Strategy.Advance(delta, &e.State)
	e.Frames++
}

// LaneState is the extracted, render-ready view of an entity.
type LaneState struct {
	ID         xid.ID
	Lane       int
	StrategyID string
	Title      string
	SimTime    float64
	X          float32
	Phase      string // Only set for hysteresis catch-up lanes
}

// Snapshot is everything the presentation layer needs for one frame.
type Snapshot struct {
	Frame uint64
	Delta core.FrameDelta
	Lanes []LaneState
}

// Driver owns the entities and both stage injectors.
type Driver struct {
	cfg    core.PacingConfig
	update *stutter.Injector
	render *stutter.Injector
	logger *log.Logger

	// Parallel advances entities concurrently. Entities never share state,
	// so ordering does not affect results.
	Parallel bool

	mu       sync.Mutex
	entities []*Entity
	frame    uint64
	delta    core.FrameDelta
	nextLane int
	recorder *Recorder
}

// New creates a driver. Nil injectors disable stutter for that stage.
func New(cfg core.PacingConfig, update, render *stutter.Injector, logger *log.Logger) *Driver {
	return &Driver{
		cfg:      cfg,
		update:   update,
		render:   render,
		logger:   logging.OrDiscard(logger),
		recorder: NewRecorder(DefaultHistory),
	}
}

// Config returns the pacing configuration.
func (d *Driver) Config() core.PacingConfig { return d.cfg }

// UpdateInjector returns the update-stage injector (may be nil).
func (d *Driver) UpdateInjector() *stutter.Injector { return d.update }

// RenderInjector returns the render-stage injector (may be nil).
func (d *Driver) RenderInjector() *stutter.Injector { return d.render }

// Recorder returns the per-strategy statistics.
func (d *Driver) Recorder() *Recorder { return d.recorder }

// Spawn creates an entity for a registered strategy with zeroed state.
func (d *Driver) Spawn(strategyID string) (*Entity, error) {
	s, err := registry.Create(strategyID, d.cfg, d.logger.With("strategy", strategyID))
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	e := &Entity{ID: xid.New(), Lane: d.nextLane, Strategy: s}
	d.nextLane++
	d.entities = append(d.entities, e)
	return e, nil
}

// Despawn removes an entity; its state goes with it.
func (d *Driver) Despawn(id xid.ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, e := range d.entities {
		if e.ID == id {
			d.entities = append(d.entities[:i], d.entities[i+1:]...)
			return true
		}
	}
	return false
}

// Entities returns the current entities in spawn order.
func (d *Driver) Entities() []*Entity {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*Entity, len(d.entities))
	copy(out, d.entities)
	return out
}

// Reset zeroes every entity's state and the frame counter.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entities {
		e.State.Reset()
		e.Frames = 0
	}
	d.frame = 0
	d.delta = core.FrameDelta{}
	d.recorder.Reset()
}

// Update runs the update stage: the update injector, then every strategy.
func (d *Driver) Update(delta core.FrameDelta) {
	delta, clamped := delta.Sanitize()
	if clamped {
		d.logger.Warn("invalid frame delta clamped to zero", "frame", d.frame)
	}

	if d.update != nil {
		d.update.Run()
	}

	entities := d.Entities()
	if d.Parallel && len(entities) > 1 {
		g, _ := errgroup.WithContext(context.Background())
		for _, e := range entities {
			g.Go(func() error {
				e.advance(delta)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, e := range entities {
			e.advance(delta)
		}
	}

	d.mu.Lock()
	d.frame++
	d.delta = delta
	d.mu.Unlock()

	d.recorder.ObserveFrame(delta)
	for _, e := range entities {
		d.recorder.ObserveLane(e.ID, e.Strategy.ID(), e.State.SimTime)
	}
}

// Extract runs the render stage: the render injector, then a read of
// every entity's position.
func (d *Driver) Extract() Snapshot {
	if d.render != nil {
		d.render.Run()
	}
	return d.Snapshot()
}

// Snapshot reads every entity's position without running the render stage.
func (d *Driver) Snapshot() Snapshot {
	entities := d.Entities()

	d.mu.Lock()
	snap := Snapshot{Frame: d.frame, Delta: d.delta, Lanes: make([]LaneState, 0, len(entities))}
	d.mu.Unlock()

	for _, e := range entities {
		ls := LaneState{
			ID:         e.ID,
			Lane:       e.Lane,
			StrategyID: e.Strategy.ID(),
			Title:      e.Strategy.Title(),
			SimTime:    e.State.SimTime,
			X:          core.Position(e.State.SimTime, d.cfg.MoveSpeed, d.cfg.Amplitude),
		}
		if ls.StrategyID == pacing.IDCatchUp {
			ls.Phase = pacing.Phase(&e.State, e.Frames).String()
		}
		snap.Lanes = append(snap.Lanes, ls)
	}
	return snap
}

// Frame runs one full frame.
func (d *Driver) Frame(delta core.FrameDelta) Snapshot {
	d.Update(delta)
	return d.Extract()
}
