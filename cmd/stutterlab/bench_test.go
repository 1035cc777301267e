package main

import (
	"strings"
	"testing"

	"github.com/rs/xid"

	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/testbed"
)

func TestDeltaPlotUsesMilliseconds(t *testing.T) {
	rec := testbed.NewRecorder(testbed.DefaultHistory)
	for i := range 10 {
		dt := 1.0 / 60
		if i%3 == 0 {
			dt = 1.0 / 30
		}
		rec.ObserveFrame(core.NewFrameDelta(dt, 0))
	}

	plot := deltaPlot(rec)
	if !strings.Contains(plot, "33.33") {
		t.Errorf("expected a 33.33 ms axis label, got:\n%s", plot)
	}
	if strings.Contains(plot, "33333") || strings.Contains(plot, "16666") {
		t.Errorf("deltas were scaled twice:\n%s", plot)
	}
}

func TestDeltaPlotNeedsHistory(t *testing.T) {
	rec := testbed.NewRecorder(testbed.DefaultHistory)
	rec.ObserveFrame(core.NewFrameDelta(1.0/60, 0))
	if plot := deltaPlot(rec); plot != "" {
		t.Errorf("expected no plot for a single frame, got:\n%s", plot)
	}
}

func TestDriftPlotLabelsEachLane(t *testing.T) {
	rec := testbed.NewRecorder(testbed.DefaultHistory)
	a, b := xid.New(), xid.New()
	for i := 1; i <= 4; i++ {
		rec.ObserveFrame(core.NewFrameDelta(1.0/60, 0))
		rec.ObserveLane(a, "fixed", float64(i)/60)
		rec.ObserveLane(b, "fixed", float64(i)/50)
	}

	plot := driftPlot(rec)
	if !strings.Contains(plot, "fixed#1") || !strings.Contains(plot, "fixed#2") {
		t.Errorf("caption should name both lanes, got:\n%s", plot)
	}
}
