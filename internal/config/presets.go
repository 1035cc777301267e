package config

import "fmt"

// Preset represents a named stutter profile.
type Preset string

const (
	PresetNone    Preset = "none"
	PresetCalm    Preset = "calm"
	PresetDefault Preset = "default"
	PresetHarsh   Preset = "harsh"
)

// Presets lists the known presets.
func Presets() []Preset {
	return []Preset{PresetNone, PresetCalm, PresetDefault, PresetHarsh}
}

// ApplyPreset overrides the stutter lists with a named profile.
// An empty preset leaves the config untouched.
func ApplyPreset(cfg *TestbedConfig, preset Preset) error {
	switch preset {
	case "":
		return nil
	case PresetNone:
		cfg.Stutter.Update = nil
		cfg.Stutter.Render = nil
	case PresetCalm:
		cfg.Stutter.Update = []StallEntry{{Probability: 0.005, Millis: 16}}
		cfg.Stutter.Render = nil
	case PresetDefault:
		def := DefaultTestbedConfig()
		cfg.Stutter.Update = def.Stutter.Update
		cfg.Stutter.Render = def.Stutter.Render
	case PresetHarsh:
		cfg.Stutter.Update = []StallEntry{
			{Probability: 0.08, Millis: 16},
			{Probability: 0.01, Millis: 50},
		}
		cfg.Stutter.Render = []StallEntry{{Probability: 0.02, Millis: 32}}
	default:
		return fmt.Errorf("config: unknown preset %q", preset)
	}
	return nil
}
