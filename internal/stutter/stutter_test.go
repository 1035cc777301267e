package stutter

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stutterlab/internal/clock"
	"github.com/vovakirdan/stutterlab/internal/logging"
)

// scriptedSource replays fixed samples, cycling when exhausted.
type scriptedSource struct {
	samples []float32
	next    int
}

func (s *scriptedSource) Float32() float32 {
	v := s.samples[s.next%len(s.samples)]
	s.next++
	return v
}

// recordingWaiter records requested stalls without blocking.
type recordingWaiter struct {
	waits []time.Duration
}

func (w *recordingWaiter) Wait(d time.Duration) {
	w.waits = append(w.waits, d)
}

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		p       float32
		millis  uint64
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"one", 1, 16, false},
		{"typical", 0.04, 16, false},
		{"negative probability", -0.1, 16, true},
		{"probability above one", 1.01, 16, true},
		{"nan probability", float32(math.NaN()), 16, true},
		{"max duration", 0.5, maxDurationMillis, false},
		{"overflowing duration", 0.5, maxDurationMillis + 1, true},
		{"huge duration", 0.5, math.MaxUint64, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.p, tt.millis)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("NewConfig() error = %v, expected ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("NewConfig() unexpected error: %v", err)
			}
		})
	}
}

func TestConfigDuration(t *testing.T) {
	if got := DefaultConfig().Duration(); got != 16*time.Millisecond {
		t.Errorf("Duration() = %v, expected 16ms", got)
	}
}

func TestStageString(t *testing.T) {
	if StageUpdate.String() != "update" || StageRender.String() != "render" {
		t.Error("unexpected stage names")
	}
}

func TestMaybeStallDeterministic(t *testing.T) {
	waiter := &recordingWaiter{}
	inj := New(StageUpdate,
		WithRandom(&scriptedSource{samples: []float32{0.1, 0.9, 0.49, 0.5}}),
		WithWaiter(waiter),
	)
	cfg := Config{Probability: 0.5, DurationMillis: 16}

	want := []bool{true, false, true, false}
	for i, w := range want {
		if got := inj.MaybeStall(cfg); got != w {
			t.Errorf("call %d: MaybeStall() = %v, expected %v", i, got, w)
		}
	}

	if len(waiter.waits) != 2 {
		t.Fatalf("expected 2 stalls, got %d", len(waiter.waits))
	}
	stats := inj.Stats()
	if stats.Checks != 4 || stats.Stalls != 2 || stats.Stalled != 32*time.Millisecond {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestProbabilityZeroNeverStalls(t *testing.T) {
	waiter := &recordingWaiter{}
	inj := New(StageRender, WithRandom(NewRandomSource(1)), WithWaiter(waiter))
	cfg := Config{Probability: 0, DurationMillis: 16}

	for i := 0; i < 10000; i++ {
		inj.MaybeStall(cfg)
	}
	if len(waiter.waits) != 0 {
		t.Errorf("probability 0 stalled %d times", len(waiter.waits))
	}
}

func TestProbabilityOneAlwaysStallsForDuration(t *testing.T) {
	waiter := &recordingWaiter{}
	inj := New(StageUpdate, WithRandom(NewRandomSource(7)), WithWaiter(waiter))
	cfg := Config{Probability: 1, DurationMillis: 16}

	for i := 0; i < 1000; i++ {
		if !inj.MaybeStall(cfg) {
			t.Fatalf("call %d did not stall", i)
		}
	}
	for _, d := range waiter.waits {
		if d != 16*time.Millisecond {
			t.Fatalf("stalled for %v, expected 16ms", d)
		}
	}
}

func TestStallRateConverges(t *testing.T) {
	waiter := &recordingWaiter{}
	inj := New(StageUpdate, WithRandom(NewRandomSource(42)), WithWaiter(waiter))
	cfg := Config{Probability: 0.25, DurationMillis: 1}

	const trials = 100000
	for i := 0; i < trials; i++ {
		inj.MaybeStall(cfg)
	}
	rate := float64(len(waiter.waits)) / trials
	if math.Abs(rate-0.25) > 0.01 {
		t.Errorf("observed stall rate %v, expected ~0.25", rate)
	}
}

func TestMaybeStallLogs(t *testing.T) {
	var buf bytes.Buffer
	inj := New(StageRender,
		WithRandom(&scriptedSource{samples: []float32{0}}),
		WithWaiter(&recordingWaiter{}),
		WithLogger(logging.New(&buf, log.InfoLevel, "")),
	)
	inj.MaybeStall(Config{Probability: 1, DurationMillis: 32})

	out := buf.String()
	if !strings.Contains(out, "render") || !strings.Contains(out, "32") {
		t.Errorf("log record should name stage and duration, got %q", out)
	}
}

func TestAttachDetachRun(t *testing.T) {
	waiter := &recordingWaiter{}
	inj := New(StageUpdate, WithRandom(&scriptedSource{samples: []float32{0}}), WithWaiter(waiter))

	if got := inj.Run(); got != 0 {
		t.Errorf("Run() with no attachments = %d, expected 0", got)
	}

	a, err := inj.Attach(Config{Probability: 1, DurationMillis: 5})
	if err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}
	if _, err := inj.Attach(Config{Probability: 1, DurationMillis: 7}); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}
	if got := inj.Run(); got != 2 {
		t.Errorf("Run() = %d, expected 2", got)
	}
	if waiter.waits[0] != 5*time.Millisecond || waiter.waits[1] != 7*time.Millisecond {
		t.Errorf("stalls ran out of attach order: %v", waiter.waits)
	}

	if !inj.Detach(a) {
		t.Error("Detach() of a known handle should succeed")
	}
	if inj.Detach(a) {
		t.Error("second Detach() should report unknown handle")
	}
	if len(inj.Attachments()) != 1 {
		t.Errorf("expected 1 attachment, got %d", len(inj.Attachments()))
	}

	inj.DetachAll()
	if len(inj.Attachments()) != 0 {
		t.Error("DetachAll() left attachments")
	}
}

func TestIndependentStreams(t *testing.T) {
	update := New(StageUpdate, WithRandom(NewRandomSource(1)), WithWaiter(&recordingWaiter{}))
	render := New(StageRender, WithRandom(NewRandomSource(2)), WithWaiter(&recordingWaiter{}))
	cfg := Config{Probability: 0.5}

	same := true
	for i := 0; i < 64; i++ {
		if update.MaybeStall(cfg) != render.MaybeStall(cfg) {
			same = false
		}
	}
	if same {
		t.Error("differently seeded stages produced identical stall sequences")
	}
	if update.Stats().Checks != 64 || render.Stats().Checks != 64 {
		t.Error("each injector should count only its own checks")
	}
}

func TestBusyWaiterFakeClock(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	fake.SetAutoAdvance(time.Millisecond)

	start := fake.Now()
	NewBusyWaiter(fake).Wait(16 * time.Millisecond)
	if got := fake.Now().Sub(start); got < 16*time.Millisecond {
		t.Errorf("busy wait returned after %v, expected >= 16ms", got)
	}
}

func TestBusyWaiterRealClock(t *testing.T) {
	start := time.Now()
	NewBusyWaiter(nil).Wait(3 * time.Millisecond)
	if elapsed := time.Since(start); elapsed < 3*time.Millisecond {
		t.Errorf("busy wait took %v, expected >= 3ms", elapsed)
	}
}

func TestNewWaiter(t *testing.T) {
	if _, ok := NewWaiter(WaitSleep, nil).(SleepWaiter); !ok {
		t.Error("sleep mode should return SleepWaiter")
	}
	if _, ok := NewWaiter(WaitBusy, nil).(*BusyWaiter); !ok {
		t.Error("busy mode should return *BusyWaiter")
	}
	if _, ok := NewWaiter("other", nil).(*BusyWaiter); !ok {
		t.Error("unknown mode should busy-wait")
	}
}

func TestAttachRejectsInvalidConfig(t *testing.T) {
	inj := New(StageRender, WithWaiter(&recordingWaiter{}))

	tests := []Config{
		{Probability: 2, DurationMillis: 16},
		{Probability: -0.1, DurationMillis: 16},
		{Probability: float32(math.NaN()), DurationMillis: 16},
		{Probability: 0.5, DurationMillis: math.MaxUint64},
	}

	for _, cfg := range tests {
		id, err := inj.Attach(cfg)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Attach(%+v) error = %v, expected ErrInvalidConfig", cfg, err)
		}
		if !id.IsNil() {
			t.Errorf("Attach(%+v) returned handle %v for a rejected config", cfg, id)
		}
	}
	if n := len(inj.Attachments()); n != 0 {
		t.Errorf("rejected configs left %d attachments", n)
	}
}
