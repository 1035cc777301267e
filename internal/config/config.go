// Package config provides YAML-based testbed configuration loading and
// named stutter presets.
package config

import (
	"fmt"

	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/stutter"
)

// TestbedConfig contains everything needed to assemble a testbed.
type TestbedConfig struct {
	Pacing   PacingConfig  `yaml:"pacing"`
	Stutter  StutterConfig `yaml:"stutter"`
	Entities []string      `yaml:"entities"` // Strategy IDs, one lane each
}

// PacingConfig defines the shared pacing parameters.
type PacingConfig struct {
	TargetRate float64 `yaml:"target_rate"` // Hz
	MoveSpeed  float32 `yaml:"move_speed"`
	Amplitude  float32 `yaml:"amplitude"`
}

// StutterConfig defines the stall sources attached to each stage.
type StutterConfig struct {
	WaitMode string       `yaml:"wait_mode"` // "busy" or "sleep"
	Update   []StallEntry `yaml:"update"`
	Render   []StallEntry `yaml:"render"`
}

// StallEntry is one YAML stutter attachment.
type StallEntry struct {
	Probability float32 `yaml:"probability"`
	Millis      uint64  `yaml:"millis"`
}

// Stutter converts the entry to a validated stutter.Config.
func (e StallEntry) Stutter() (stutter.Config, error) {
	return stutter.NewConfig(e.Probability, e.Millis)
}

// Core returns the pacing parameters as a core.PacingConfig.
func (p PacingConfig) Core() core.PacingConfig {
	cfg := core.DefaultPacingConfig()
	if p.TargetRate > 0 {
		cfg.TargetInterval = 1.0 / p.TargetRate
	}
	if p.MoveSpeed != 0 {
		cfg.MoveSpeed = p.MoveSpeed
	}
	if p.Amplitude != 0 {
		cfg.Amplitude = p.Amplitude
	}
	return cfg
}

// Mode returns the configured stall primitive.
func (s StutterConfig) Mode() stutter.WaitMode {
	if s.WaitMode == string(stutter.WaitSleep) {
		return stutter.WaitSleep
	}
	return stutter.WaitBusy
}

// Validate checks the config. Invalid stutter entries surface here,
// wrapping stutter.ErrInvalidConfig, rather than in the frame loop.
func (c TestbedConfig) Validate() error {
	if c.Pacing.TargetRate < 0 {
		return fmt.Errorf("config: target_rate must not be negative, got %v", c.Pacing.TargetRate)
	}

	switch c.Stutter.WaitMode {
	case "", string(stutter.WaitBusy), string(stutter.WaitSleep):
	default:
		return fmt.Errorf("config: unknown wait_mode %q", c.Stutter.WaitMode)
	}

	for i, e := range c.Stutter.Update {
		if _, err := e.Stutter(); err != nil {
			return fmt.Errorf("config: stutter.update[%d]: %w", i, err)
		}
	}
	for i, e := range c.Stutter.Render {
		if _, err := e.Stutter(); err != nil {
			return fmt.Errorf("config: stutter.render[%d]: %w", i, err)
		}
	}
	return nil
}
