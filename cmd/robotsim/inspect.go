package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/engine"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the contents of a state file",
	Long: `Decode a state file written by run, resume, watch or replay and print
the time, every robot and every environment element it holds.

Examples:
  robotsim inspect simulation_final_state.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	state, err := engine.ReadStateFile(args[0])
	if err != nil {
		return err
	}
	printState(state)
	return nil
}

// printState writes a readable summary of a system state to stdout.
func printState(s *snapshot.SystemState) {
	fmt.Printf("Time: %.6fs\n", s.Time())
	fmt.Printf("Robots: %d\n", s.RobotCount())
	for i, rs := range s.RobotStates() {
		if p, ok := rs.(core.Posed); ok {
			pos, theta := p.Pose()
			fmt.Printf("  [%d] %-16s pos=(%.4f, %.4f) theta=%.4f\n", i, rs.TypeID(), pos.X, pos.Y, theta)
			continue
		}
		fmt.Printf("  [%d] %s\n", i, rs.TypeID())
	}

	env := s.Environment()
	if env == nil {
		fmt.Println("Environment: none")
		return
	}
	fmt.Printf("Environment: %d elements\n", env.Len())
	for i, el := range env.Elements() {
		fmt.Printf("  [%d] %-16s %s\n", i, el.TypeID, el.Payload)
	}
}
