// Package stutter injects artificial stalls into the update and render
// stages of the frame loop.
package stutter

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is returned when a stutter configuration cannot be used.
var ErrInvalidConfig = errors.New("stutter: invalid config")

// maxDurationMillis is the largest duration representable as a time.Duration.
const maxDurationMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

// Stage identifies the pipeline stage an injector gates.
type Stage int

const (
	StageUpdate Stage = iota
	StageRender
)

// String returns the stage name used in log records.
func (s Stage) String() string {
	switch s {
	case StageUpdate:
		return "update"
	case StageRender:
		return "render"
	default:
		return "unknown"
	}
}

// Config describes one stall source: with Probability per check, block
// for DurationMillis milliseconds. Build it with NewConfig so the values
// are validated once, outside the frame loop.
type Config struct {
	Probability    float32
	DurationMillis uint64
}

// DefaultConfig returns a 2% chance of a 16ms stall.
func DefaultConfig() Config {
	return Config{Probability: 0.02, DurationMillis: 16}
}

// NewConfig validates and creates a stutter config.
func NewConfig(probability float32, millis uint64) (Config, error) {
	cfg := Config{Probability: probability, DurationMillis: millis}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the probability range and that the duration fits a time.Duration.
func (c Config) Validate() error {
	p := float64(c.Probability)
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: probability %v outside [0,1]", ErrInvalidConfig, c.Probability)
	}
	if c.DurationMillis > maxDurationMillis {
		return fmt.Errorf("%w: duration %dms overflows", ErrInvalidConfig, c.DurationMillis)
	}
	return nil
}

// Duration returns the stall length.
func (c Config) Duration() time.Duration {
	return time.Duration(c.DurationMillis) * time.Millisecond
}
