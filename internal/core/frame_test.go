package core

import (
	"math"
	"testing"
)

func TestFrameDeltaSanitize(t *testing.T) {
	tests := []struct {
		name        string
		in          FrameDelta
		want        FrameDelta
		wantClamped bool
	}{
		{"valid", NewFrameDelta(1.0/60, 2), NewFrameDelta(1.0/60, 2), false},
		{"zero", NewFrameDelta(0, 0), NewFrameDelta(0, 0), false},
		{"negative dt", NewFrameDelta(-0.01, 2), NewFrameDelta(0, 2), true},
		{"nan dt", NewFrameDelta(math.NaN(), 2), NewFrameDelta(0, 2), true},
		{"inf dt", NewFrameDelta(math.Inf(1), 2), NewFrameDelta(0, 2), true},
		{"negative elapsed", NewFrameDelta(0.01, -1), NewFrameDelta(0.01, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := tt.in.Sanitize()
			if got != tt.want {
				t.Errorf("Sanitize() = %+v, expected %+v", got, tt.want)
			}
			if clamped != tt.wantClamped {
				t.Errorf("clamped = %v, expected %v", clamped, tt.wantClamped)
			}
		})
	}
}

func TestAccumulatorStateReset(t *testing.T) {
	st := AccumulatorState{Accumulated: 1, SimTime: 2, GoodFrameStreak: 3}
	st.Reset()
	if st != (AccumulatorState{}) {
		t.Errorf("Reset() left %+v", st)
	}
}

func TestPosition(t *testing.T) {
	if got := Position(0, DefaultMoveSpeed, DefaultAmplitude); got != 0 {
		t.Errorf("Position(0) = %v, expected 0", got)
	}

	// sin(pi/2) = 1 at simTime = pi/(2*0.5) = pi
	got := Position(math.Pi, DefaultMoveSpeed, DefaultAmplitude)
	if math.Abs(float64(got-DefaultAmplitude)) > 1e-3 {
		t.Errorf("Position(pi) = %v, expected %v", got, DefaultAmplitude)
	}
}

func TestDefaultPacingConfig(t *testing.T) {
	cfg := DefaultPacingConfig()
	if cfg.TargetInterval != 1.0/60.0 {
		t.Errorf("TargetInterval = %v, expected 1/60", cfg.TargetInterval)
	}
	if math.Abs(cfg.TargetRate()-60) > 1e-9 {
		t.Errorf("TargetRate() = %v, expected 60", cfg.TargetRate())
	}
}
