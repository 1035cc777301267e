package config

import (
	_ "embed"
)

//go:embed defaults/testbed.yaml
var defaultTestbedYAML []byte

// DefaultTestbedConfig returns the default testbed configuration.
func DefaultTestbedConfig() TestbedConfig {
	return TestbedConfig{
		Pacing: PacingConfig{
			TargetRate: 60,
			MoveSpeed:  0.5,
			Amplitude:  500,
		},
		Stutter: StutterConfig{
			WaitMode: "busy",
			Update:   []StallEntry{{Probability: 0.04, Millis: 16}},
			Render:   []StallEntry{{Probability: 0.00004, Millis: 32}},
		},
		Entities: []string{"startup", "delta", "fixed", "catchup", "catchup_simple", "golden"},
	}
}
