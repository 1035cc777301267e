package testbed

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stutterlab/internal/clock"
	"github.com/vovakirdan/stutterlab/internal/config"
	"github.com/vovakirdan/stutterlab/internal/logging"
	"github.com/vovakirdan/stutterlab/internal/stutter"
)

// renderSeedSalt separates the render stream from the update stream.
const renderSeedSalt = 0x5DEECE66D

// Build assembles a driver from a testbed config: one injector per stage
// with its own random stream and waiter, every configured attachment, and
// one entity per configured strategy.
func Build(cfg config.TestbedConfig, seed int64, logger *log.Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrDiscard(logger)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mode := cfg.Stutter.Mode()
	update := stutter.New(stutter.StageUpdate,
		stutter.WithRandom(stutter.NewRandomSource(seed)),
		stutter.WithWaiter(stutter.NewWaiter(mode, clock.Real{})),
		stutter.WithLogger(logger.WithPrefix("update")),
	)
	render := stutter.New(stutter.StageRender,
		stutter.WithRandom(stutter.NewRandomSource(seed^renderSeedSalt)),
		stutter.WithWaiter(stutter.NewWaiter(mode, clock.Real{})),
		stutter.WithLogger(logger.WithPrefix("render")),
	)

	for _, e := range cfg.Stutter.Update {
		sc, err := e.Stutter()
		if err != nil {
			return nil, err
		}
		if _, err := update.Attach(sc); err != nil {
			return nil, err
		}
	}
	for _, e := range cfg.Stutter.Render {
		sc, err := e.Stutter()
		if err != nil {
			return nil, err
		}
		if _, err := render.Attach(sc); err != nil {
			return nil, err
		}
	}

	d := New(cfg.Pacing.Core(), update, render, logger)
	for _, id := range cfg.Entities {
		if _, err := d.Spawn(id); err != nil {
			return nil, fmt.Errorf("testbed: spawn %q: %w", id, err)
		}
	}

	if mode == stutter.WaitSleep {
		logger.Warn("sleep-based stalls yield the CPU and are only as precise as the scheduler")
	}
	return d, nil
}
