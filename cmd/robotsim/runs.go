package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/robotsim/internal/storage"
)

var flagLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `Display the most recent runs recorded with --record.

Examples:
  robotsim runs
  robotsim runs --limit 50
  robotsim runs delete 3f2a`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run>",
	Short: "Delete a recorded run and its frames",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of runs to show")
	runsCmd.AddCommand(runsDeleteCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(flagLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'robotsim run --record' to record one.")
		return nil
	}

	// Print header
	fmt.Printf("  %-8s  %-16s  %-8s  %-6s  %s\n", "ID", "Name", "dt", "Steps", "Date")
	fmt.Printf("  %-8s  %-16s  %-8s  %-6s  %s\n", "--", "----", "--", "-----", "----")

	for _, r := range runs {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-8s  %-16s  %-8g  %-6d  %s\n", shortID(r.ID), truncate(r.Name, 16), r.DT, r.LastStep, dateStr)
	}
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.ResolveRun(args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteRun(run.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s (%d frames)\n", shortID(run.ID), run.Frames)
	return nil
}

// shortID returns the first eight characters of a run ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
