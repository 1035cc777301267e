package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stutterlab/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all pacing strategies",
	Long:  `Shows every pacing strategy registered in the testbed.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	strategies := registry.List()

	if len(strategies) == 0 {
		fmt.Println("No strategies available.")
		return
	}

	fmt.Println("Pacing strategies:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range strategies {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, s := range strategies {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}

	fmt.Println()
	fmt.Println("Select lanes with the 'entities' list in testbed.yaml.")
}
