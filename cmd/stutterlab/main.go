// stutterlab is a terminal frame-pacing testbed. It moves one sine-driven
// sprite per pacing strategy while injecting artificial update and render
// stalls, so the strategies can be compared side by side.
//
// Usage:
//
//	stutterlab list              - List pacing strategies
//	stutterlab run               - Live testbed in the terminal
//	stutterlab bench             - Headless run with plots, saved to history
//	stutterlab runs              - Show saved runs
//	stutterlab serve             - Start SSH server for remote sessions
//
// Global flags:
//
//	--fps <rate>        - Host frame rate (default: 60)
//	--seed <value>      - RNG seed for reproducible stalls
//	--db <path>         - Run history path (default: ~/.stutterlab/runs.db)
//	--config <path>     - Custom testbed YAML
//	--preset <name>     - Stutter preset: none, calm, default, harsh
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Log destination for the live view
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import strategies to register them
	_ "github.com/vovakirdan/stutterlab/internal/pacing"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stutterlab",
	Short: "stutterlab - compare frame pacing strategies under stutter",
	Long: `stutterlab drives several timestep strategies from the same measured
frame deltas and injects random stalls into the update and render stages.
Each strategy moves its own sprite along a sine path, so uneven motion is
visible at a glance.

Available commands:
  list     - Show all pacing strategies
  run      - Live testbed in the terminal
  bench    - Headless benchmark with plots
  runs     - Saved run history
  serve    - Start SSH server for remote sessions

Examples:
  stutterlab list
  stutterlab run --preset harsh
  stutterlab bench --frames 600 --seed 42
  stutterlab serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Host frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.stutterlab/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom testbed config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Stutter preset: none, calm, default, harsh")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.stutterlab/stutterlab.log", "Log file for the live view")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}
