package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/robotsim/internal/registry"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List robot and element kinds",
	Long:  `Shows the robot and environment element kinds a scenario can use.`,
	Args:  cobra.NoArgs,
	Run:   runKinds,
}

func runKinds(cmd *cobra.Command, args []string) {
	printKinds("Robot kinds:", registry.ListRobots())
	fmt.Println()
	printKinds("Element kinds:", registry.ListElements())
	fmt.Println()
	fmt.Println("Robot state types:")
	for _, id := range snapshot.Types() {
		fmt.Printf("  %s\n", id)
	}
	fmt.Println()
	fmt.Println("Use a kind in a scenario as `- kind: <kind>` with its params.")
}

func printKinds(heading string, kinds []registry.KindInfo) {
	fmt.Println(heading)
	if len(kinds) == 0 {
		fmt.Println("  (none)")
		return
	}

	// Calculate column widths
	maxKindLen, maxTypeLen := 4, 4 // "Kind", "Type" headers
	for _, k := range kinds {
		maxKindLen = max(maxKindLen, len(k.Kind))
		maxTypeLen = max(maxTypeLen, len(k.TypeID))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxKindLen, "Kind", maxTypeLen, "Type", "Title")
	fmt.Printf("  %-*s  %-*s  %s\n", maxKindLen, "----", maxTypeLen, "----", "-----")
	for _, k := range kinds {
		fmt.Printf("  %-*s  %-*s  %s\n", maxKindLen, k.Kind, maxTypeLen, k.TypeID, k.Title)
	}
}
