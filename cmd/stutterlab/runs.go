package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stutterlab/internal/storage"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "Show saved runs",
	Long: `Without arguments, list the most recent runs. With a run ID, show the
per-strategy results of that run.

Examples:
  stutterlab runs
  stutterlab runs --limit 20
  stutterlab runs cs1q2ab3k8l0c5e0g7ng`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
}

func runRuns(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening run database: %w", err)
	}
	defer store.Close()

	if len(args) == 1 {
		return showRun(store, args[0])
	}

	runs, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Try 'stutterlab bench' to record one.")
		return nil
	}

	fmt.Printf("  %-20s  %-8s  %6s  %7s  %8s  %8s  %s\n", "ID", "Preset", "Hz", "Frames", "Upd", "Rnd", "Date")
	fmt.Printf("  %-20s  %-8s  %6s  %7s  %8s  %8s  %s\n", "--", "------", "--", "------", "---", "---", "----")
	for _, r := range runs {
		fmt.Printf("  %-20s  %-8s  %6.1f  %7d  %8d  %8d  %s\n",
			r.ID, r.Preset, r.TargetRate, r.Frames, r.UpdateStalls, r.RenderStalls,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func showRun(store *storage.Store, id string) error {
	results, err := store.RunResults(id)
	if err != nil {
		return fmt.Errorf("retrieving run %s: %w", id, err)
	}
	if len(results) == 0 {
		return fmt.Errorf("run %q not found", id)
	}

	fmt.Printf("Run %s\n\n", id)
	fmt.Printf("  %-16s  %10s  %10s  %10s\n", "Strategy", "SimTime", "Drift", "MaxJump")
	fmt.Printf("  %-16s  %10s  %10s  %10s\n", "--------", "-------", "-----", "-------")
	for _, r := range results {
		fmt.Printf("  %-16s  %10.3f  %+10.4f  %10.4f\n", r.Strategy, r.SimTime, r.Drift, r.MaxJump)
	}
	return nil
}
