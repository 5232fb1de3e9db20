package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/platform/tui"
	"github.com/vovakirdan/robotsim/internal/scenario"
)

var flagTickRate int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the simulation in the terminal",
	Long: `Step the scenario once per tick and draw it in the terminal.

Robots are arrows pointing along their heading: green while moving freely,
red on a collision step and cyan at a merge point.

Controls:
  Space/P    - Pause / resume
  N/Right    - Single step while paused
  S/Ctrl+S   - Save the current state to the output file
  ?          - Toggle help
  Q/Ctrl+C   - Quit

Examples:
  robotsim watch
  robotsim watch --fps 30 --dt 0.05
  robotsim watch --state simulation_final_state.json`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addStepFlags(watchCmd)
	watchCmd.Flags().IntVar(&flagTickRate, "fps", 0, "Ticks per second (default: scenario view.tick_rate)")
	watchCmd.Flags().StringVar(&flagStateFile, "state", "", "Start from a saved state file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario()
	if err != nil {
		return err
	}
	if err := applyStepFlags(cmd, &sc); err != nil {
		return err
	}

	e, err := scenario.Build(sc)
	if err != nil {
		return err
	}
	if flagStateFile != "" {
		if err := e.LoadStateFromFile(flagStateFile); err != nil {
			return err
		}
	}

	// Get terminal size
	cfg := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.DT = sc.DT
	cfg.MaxSteps = sc.Steps
	if sc.View.TickRate > 0 {
		cfg.TickRate = sc.View.TickRate
	}
	if flagTickRate > 0 {
		cfg.TickRate = flagTickRate
	}

	var window core.Rect
	if sc.View.HasWindow() {
		window = core.NewRect(sc.View.MinX, sc.View.MinY, sc.View.MaxX-sc.View.MinX, sc.View.MaxY-sc.View.MinY)
	}

	if err := tui.Run(e, cfg, window, sc.OutputPath()); err != nil {
		return err
	}
	fmt.Printf("Stopped at t=%.3fs\n", e.Time())
	return nil
}
