// Package registry provides a global registry for pacing strategy factories.
// Strategies register themselves in init() functions, allowing the testbed
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stutterlab/internal/core"
)

// ErrUnknownStrategy is returned by Create for an unregistered ID.
var ErrUnknownStrategy = errors.New("registry: unknown strategy")

// Strategy converts a frame delta into a simulation time.
// Implementations keep no per-entity state of their own: everything that
// survives between frames lives in the AccumulatorState passed in.
type Strategy interface {
	// ID returns a unique identifier (e.g., "fixed", "catchup").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Advance consumes one frame and returns the new simulation time.
	// The result is also stored in st.SimTime.
	Advance(d core.FrameDelta, st *core.AccumulatorState) float64
}

// StrategyInfo contains metadata about a registered strategy.
type StrategyInfo struct {
	ID    string
	Title string
}

// Factory creates a strategy for the given pacing parameters.
// A nil logger must be accepted.
type Factory func(cfg core.PacingConfig, logger *log.Logger) Strategy

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	order     = make(map[string]int)
	mu        sync.RWMutex
)

// Register adds a strategy factory to the registry.
// Panics if a strategy with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: strategy %q already registered", id))
	}

	factories[id] = f
	order[id] = len(order)
	titles[id] = f(core.DefaultPacingConfig(), nil).Title()
}

// List returns all registered strategies, sorted by ID.
func List() []StrategyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]StrategyInfo, 0, len(factories))
	for id := range factories {
		result = append(result, StrategyInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// IDs returns registered IDs in registration order.
func IDs() []string {
	mu.RLock()
	defer mu.RUnlock()

	ids := make([]string, 0, len(order))
	for id := range order {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })
	return ids
}

// Create instantiates a strategy by its ID.
func Create(id string, cfg core.PacingConfig, logger *log.Logger) (Strategy, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, id)
	}
	return f(cfg, logger), nil
}

// Exists checks if a strategy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
