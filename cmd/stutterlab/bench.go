package main

import (
	"fmt"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/stutterlab/internal/clock"
	"github.com/vovakirdan/stutterlab/internal/testbed"
)

var (
	flagFrames   int
	flagParallel bool
	flagNoPlot   bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a headless benchmark",
	Long: `Drive the testbed without a display for a fixed number of frames at
--fps, then print per-strategy drift and plots of frame delta and drift.
The run is saved to the history database.

Drift is a strategy's simulation time minus the wall time it consumed.
A strategy that holds its pace under stutter keeps drift near zero.

Examples:
  stutterlab bench
  stutterlab bench --frames 1200 --preset harsh --seed 42
  stutterlab bench --parallel --no-plot`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagFrames, "frames", 600, "Number of frames to run")
	benchCmd.Flags().BoolVar(&flagParallel, "parallel", false, "Advance entities concurrently")
	benchCmd.Flags().BoolVar(&flagNoPlot, "no-plot", false, "Skip the ASCII plots")
}

func runBench(_ *cobra.Command, _ []string) error {
	if flagFrames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", flagFrames)
	}
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	tb, preset, err := loadTestbed()
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, "bench")
	if err != nil {
		return err
	}

	driver, err := testbed.Build(tb, flagSeed, logger)
	if err != nil {
		return err
	}
	driver.Parallel = flagParallel

	c := clock.Real{}
	timer := clock.NewFrameTimer(c)
	limiter := clock.NewLimiter(c, float64(flagFPS))

	logger.Info("bench started", "frames", flagFrames, "fps", flagFPS, "preset", preset)
	start := time.Now()
	for range flagFrames {
		driver.Frame(timer.Tick())
		limiter.Wait()
	}
	logger.Info("bench finished", "wall", time.Since(start).Round(time.Millisecond))

	printSummary(driver)
	if !flagNoPlot {
		printPlots(driver)
	}

	saveReport(driver, preset)
	return nil
}

func printSummary(driver *testbed.Driver) {
	rec := driver.Recorder()
	upd := driver.UpdateInjector().Stats()
	rnd := driver.RenderInjector().Stats()

	fmt.Println()
	fmt.Printf("Frames: %d   wall: %.3fs   update stalls: %d   render stalls: %d   stalled: %s\n",
		rec.Frames(), rec.WallTime(), upd.Stalls, rnd.Stalls, (upd.Stalled + rnd.Stalled).Round(time.Millisecond))
	fmt.Println()

	fmt.Printf("  %-16s  %10s  %10s  %10s\n", "Strategy", "SimTime", "Drift", "MaxJump")
	fmt.Printf("  %-16s  %10s  %10s  %10s\n", "--------", "-------", "-----", "-------")
	for _, st := range rec.Stats() {
		fmt.Printf("  %-16s  %10.3f  %+10.4f  %10.4f\n", st.Label, st.SimTime, st.Drift, st.MaxJump)
	}
	fmt.Println()
}

func printPlots(driver *testbed.Driver) {
	rec := driver.Recorder()
	for _, plot := range []string{deltaPlot(rec), driftPlot(rec)} {
		if plot != "" {
			fmt.Println(plot)
			fmt.Println()
		}
	}
}

// deltaPlot charts recent frame deltas. The recorder already keeps them in ms.
func deltaPlot(rec *testbed.Recorder) string {
	deltas := rec.DeltaHistory()
	if len(deltas) < 2 {
		return ""
	}
	return asciigraph.Plot(deltas,
		asciigraph.Height(10),
		asciigraph.Width(72),
		asciigraph.Caption("frame delta (ms)"),
	)
}

// driftPlot charts every lane's drift in one graph.
func driftPlot(rec *testbed.Recorder) string {
	var (
		series [][]float64
		labels []string
	)
	for _, h := range rec.DriftHistory() {
		if len(h.Drift) > 1 {
			series = append(series, h.Drift)
			labels = append(labels, h.Label)
		}
	}
	if len(series) == 0 {
		return ""
	}

	colors := []asciigraph.AnsiColor{
		asciigraph.Red, asciigraph.Green, asciigraph.Yellow,
		asciigraph.Blue, asciigraph.Magenta, asciigraph.Cyan,
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.SeriesColors(colors[:min(len(series), len(colors))]...),
		asciigraph.Caption(fmt.Sprintf("drift (ms): %v", labels)),
	)
}
