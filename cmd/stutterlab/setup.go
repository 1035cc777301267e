package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stutterlab/internal/config"
	"github.com/vovakirdan/stutterlab/internal/logging"
)

// loadTestbed resolves the config file and applies --preset on top.
// The returned preset name is what gets stored with the run.
func loadTestbed() (config.TestbedConfig, string, error) {
	cfg, err := config.LoadTestbed(flagConfig)
	if err != nil {
		return config.TestbedConfig{}, "", err
	}

	preset := "custom"
	if flagPreset != "" {
		if err := config.ApplyPreset(&cfg, config.Preset(flagPreset)); err != nil {
			return config.TestbedConfig{}, "", err
		}
		preset = flagPreset
	}

	if err := cfg.Validate(); err != nil {
		return config.TestbedConfig{}, "", err
	}
	return cfg, preset, nil
}

// newLogger builds a logger at --log-level writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	lvl, err := logging.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return logging.New(w, lvl, prefix), nil
}
