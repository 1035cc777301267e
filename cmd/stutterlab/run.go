package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/stutterlab/internal/core"
	"github.com/vovakirdan/stutterlab/internal/logging"
	"github.com/vovakirdan/stutterlab/internal/platform/tui"
	"github.com/vovakirdan/stutterlab/internal/storage"
	"github.com/vovakirdan/stutterlab/internal/testbed"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live testbed",
	Long: `Start the live testbed. Every configured strategy gets a lane with a
sprite driven by its own simulation time.

Controls:
  Space      - Pause
  R          - Reset all lanes
  U          - Toggle update-stage stutter
  I          - Toggle render-stage stutter
  ?          - Toggle help
  Q/Ctrl+C   - Quit

Presets:
  none     - No injected stalls
  calm     - Rare update stalls
  default  - 4% update stalls at 16ms, very rare 32ms render stalls
  harsh    - Frequent stalls in both stages

Logs go to --log-file so they don't tear the display.

Examples:
  stutterlab run
  stutterlab run --preset harsh --seed 7
  stutterlab run --config ./my-testbed.yaml --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(_ *cobra.Command, _ []string) error {
	tb, preset, err := loadTestbed()
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(flagLogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, "stutterlab")
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	driver, err := testbed.Build(tb, cfg.Seed, logger)
	if err != nil {
		return err
	}

	if err := tui.Run(driver, cfg, preset); err != nil {
		return fmt.Errorf("running testbed: %w", err)
	}

	saveReport(driver, preset)
	return nil
}

// saveReport stores the run summary. History is optional, so failures only warn.
func saveReport(driver *testbed.Driver, preset string) {
	if driver.Recorder().Frames() == 0 {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		return
	}
	defer store.Close()

	id, err := store.SaveRun(driver.Report(preset))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
		return
	}
	fmt.Printf("Saved run %s\n", id)
}
