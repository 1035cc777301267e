package testbed

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/xid"

	"github.com/vovakirdan/stutterlab/internal/core"
)

// DefaultHistory is the number of frames kept for plots.
const DefaultHistory = 240

// ring is a fixed-capacity buffer of the most recent values.
type ring struct {
	values []float64
	start  int
	size   int
}

func newRing(capacity int) *ring {
	return &ring{values: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	if len(r.values) == 0 {
		return
	}
	idx := (r.start + r.size) % len(r.values)
	r.values[idx] = v
	if r.size < len(r.values) {
		r.size++
	} else {
		r.start = (r.start + 1) % len(r.values)
	}
}

func (r *ring) slice() []float64 {
	out := make([]float64, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.values[(r.start+i)%len(r.values)]
	}
	return out
}

// StrategyStats summarizes one lane over a run.
type StrategyStats struct {
	EntityID   xid.ID
	StrategyID string
	Label      string // StrategyID, suffixed with #n when several lanes share it
	Frames     uint64
	SimTime    float64 // Latest simulation time
	Drift      float64 // SimTime minus wall time consumed since the lane started
	MaxJump    float64 // Largest single-frame SimTime advance
}

type laneRecord struct {
	stats     StrategyStats
	wallStart float64
	last      float64
	drift     *ring
	started   bool
}

// Recorder accumulates per-lane statistics and recent history.
type Recorder struct {
	capacity int

	mu      sync.Mutex
	wall    float64
	lastDT  float64
	frames  uint64
	dtMs    *ring
	lanes   map[xid.ID]*laneRecord
	ordered []xid.ID
}

// NewRecorder creates a recorder keeping capacity frames of history.
func NewRecorder(capacity int) *Recorder {
	r := &Recorder{capacity: capacity}
	r.Reset()
	return r
}

// Reset drops all statistics.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wall = 0
	r.lastDT = 0
	r.frames = 0
	r.dtMs = newRing(r.capacity)
	r.lanes = make(map[xid.ID]*laneRecord)
	r.ordered = nil
}

// ObserveFrame records the frame delta. Call once per frame, before the
// lanes of that frame.
func (r *Recorder) ObserveFrame(d core.FrameDelta) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wall += d.DT
	r.lastDT = d.DT
	r.frames++
	r.dtMs.push(d.DT * 1000)
}

// ObserveLane records an entity's simulation time after this frame.
// A lane first seen mid-run measures drift from the frame it joined.
func (r *Recorder) ObserveLane(id xid.ID, strategyID string, simTime float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lr, ok := r.lanes[id]
	if !ok {
		lr = &laneRecord{
			stats:     StrategyStats{EntityID: id, StrategyID: strategyID},
			wallStart: r.wall - r.lastDT,
			drift:     newRing(r.capacity),
		}
		r.lanes[id] = lr
		r.ordered = append(r.ordered, id)
	}

	if lr.started {
		lr.stats.MaxJump = math.Max(lr.stats.MaxJump, simTime-lr.last)
	} else {
		lr.stats.MaxJump = simTime
		lr.started = true
	}
	lr.last = simTime

	lr.stats.Frames++
	lr.stats.SimTime = simTime
	lr.stats.Drift = simTime - (r.wall - lr.wallStart)
	lr.drift.push(lr.stats.Drift * 1000)
}

// WallTime returns the total of all observed deltas in seconds.
func (r *Recorder) WallTime() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wall
}

// Frames returns the number of observed frames.
func (r *Recorder) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// labels names each lane by strategy, numbering strategies that appear
// on more than one lane. Caller holds r.mu.
func (r *Recorder) labels() []string {
	count := make(map[string]int, len(r.ordered))
	for _, id := range r.ordered {
		count[r.lanes[id].stats.StrategyID]++
	}

	seen := make(map[string]int, len(count))
	out := make([]string, len(r.ordered))
	for i, id := range r.ordered {
		sid := r.lanes[id].stats.StrategyID
		if count[sid] == 1 {
			out[i] = sid
			continue
		}
		seen[sid]++
		out[i] = fmt.Sprintf("%s#%d", sid, seen[sid])
	}
	return out
}

// Stats returns per-lane statistics in first-seen order.
func (r *Recorder) Stats() []StrategyStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	labels := r.labels()
	out := make([]StrategyStats, 0, len(r.ordered))
	for i, id := range r.ordered {
		st := r.lanes[id].stats
		st.Label = labels[i]
		out = append(out, st)
	}
	return out
}

// DeltaHistory returns recent frame deltas in milliseconds, oldest first.
func (r *Recorder) DeltaHistory() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dtMs.slice()
}

// LaneHistory is the recent drift (ms) of one lane.
type LaneHistory struct {
	Label string
	Drift []float64
}

// DriftHistory returns recent drift per lane in first-seen order.
func (r *Recorder) DriftHistory() []LaneHistory {
	r.mu.Lock()
	defer r.mu.Unlock()

	labels := r.labels()
	out := make([]LaneHistory, 0, len(r.ordered))
	for i, id := range r.ordered {
		out = append(out, LaneHistory{Label: labels[i], Drift: r.lanes[id].drift.slice()})
	}
	return out
}
