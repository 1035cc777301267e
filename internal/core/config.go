package core

// RuntimeConfig contains configuration passed to the testbed driver at startup.
// The platform layer fills it from CLI flags and terminal size.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second requested from the host loop (default 60)
	Seed     int64 // RNG seed for the stutter injectors
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Default pacing parameters.
const (
	DefaultTargetRate = 60.0
	DefaultMoveSpeed  = float32(0.5)
	DefaultAmplitude  = float32(500.0)
)

// PacingConfig holds the parameters shared by every pacing strategy.
type PacingConfig struct {
	TargetInterval float64 // Ideal frame interval in seconds
	MoveSpeed      float32 // Angular speed applied to simTime before sin()
	Amplitude      float32 // Peak displacement of a lane
}

// DefaultPacingConfig returns the 60 Hz configuration.
func DefaultPacingConfig() PacingConfig {
	return PacingConfig{
		TargetInterval: 1.0 / DefaultTargetRate,
		MoveSpeed:      DefaultMoveSpeed,
		Amplitude:      DefaultAmplitude,
	}
}

// TargetRate returns the target rate in Hz.
func (c PacingConfig) TargetRate() float64 {
	if c.TargetInterval <= 0 {
		return 0
	}
	return 1.0 / c.TargetInterval
}
