// robotsim is a discrete-time simulator for point robots moving through an
// environment of obstacles, gates and merge zones.
//
// Usage:
//
//	robotsim run                 - Run the scenario and save the final state
//	robotsim resume              - Continue from a saved state or recorded run
//	robotsim watch               - Watch the scenario in the terminal
//	robotsim kinds               - List robot and element kinds
//	robotsim runs                - List recorded runs
//	robotsim replay <run>        - Restore and verify a recorded run
//	robotsim inspect <file>      - Print a saved state file
//
// Global flags:
//
//	--scenario <path>  - Scenario YAML (default: search order, then built-in demo)
//	--db <path>        - Run database (default: ~/.robotsim/runs.db)
//	--log-level <lvl>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/robotsim/internal/config"

	// Import kinds to register them
	_ "github.com/vovakirdan/robotsim/internal/elements"
	_ "github.com/vovakirdan/robotsim/internal/robot"
)

var (
	// Global flags
	flagScenario string
	flagDBPath   string
	flagLogLevel string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "robotsim",
	Short: "Robot Sim - discrete-time mobile robot simulator",
	Long: `Robot Sim steps point robots through an environment of obstacles,
moving gates and merge zones, reporting collisions and merge-point
arrivals as they happen. Every state can be saved, restored and replayed.

Available commands:
  run      - Run the scenario and save the final state
  resume   - Continue from a saved state or a recorded run
  watch    - Watch the simulation in the terminal
  kinds    - List robot and element kinds
  runs     - List recorded runs
  replay   - Restore a recorded run and verify it re-simulates identically
  inspect  - Print the contents of a state file

Examples:
  robotsim run
  robotsim run --scenario ./lanes.yaml --record
  robotsim watch
  robotsim replay 3f2a --step 40 --verify
  robotsim inspect simulation_final_state.json`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

func init() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
		settings = config.Settings{DBPath: "~/.robotsim/runs.db", LogLevel: "info"}
	}

	// Global persistent flags, defaulting to the environment
	rootCmd.PersistentFlags().StringVar(&flagScenario, "scenario", settings.Scenario, "Path to scenario YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", settings.DBPath, "Path to run database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", settings.LogLevel, "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(inspectCmd)
}

func setupLogger(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "robotsim",
		Level:           level,
	})
	return nil
}

// loadScenario resolves the scenario from --scenario and the search order.
func loadScenario() (config.Scenario, error) {
	sc, _, source, err := config.LoadScenario(flagScenario)
	if err != nil {
		return config.Scenario{}, err
	}
	logger.Debug("loaded scenario", "name", sc.Name, "source", source)
	return sc, nil
}
