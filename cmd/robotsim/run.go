package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/robotsim/internal/config"
	"github.com/vovakirdan/robotsim/internal/engine"
	"github.com/vovakirdan/robotsim/internal/observers"
	"github.com/vovakirdan/robotsim/internal/scenario"
	"github.com/vovakirdan/robotsim/internal/storage"
)

var (
	flagSteps   int
	flagDT      float64
	flagOutput  string
	flagRecord  bool
	flagMetrics bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scenario and save the final state",
	Long: `Build the scenario, step it the configured number of times and save
the final system state to a JSON file.

Collisions and merge-point arrivals are logged as they happen. With
--record every step is stored in the run database for later replay.

Examples:
  robotsim run
  robotsim run --steps 500 --dt 0.05
  robotsim run --scenario ./lanes.yaml --output lanes.json
  robotsim run --record --metrics`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	addStepFlags(runCmd)
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "Record every step in the run database")
	runCmd.Flags().BoolVar(&flagMetrics, "metrics", false, "Print step and event counters when done")
}

// addStepFlags registers the flags shared by commands that step an engine.
func addStepFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagSteps, "steps", 0, "Number of steps (default: scenario steps)")
	cmd.Flags().Float64Var(&flagDT, "dt", 0, "Step duration in seconds (default: scenario dt)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Final state file (default: scenario output)")
}

// applyStepFlags overrides scenario values with the flags the user set.
func applyStepFlags(cmd *cobra.Command, sc *config.Scenario) error {
	if cmd.Flags().Changed("steps") {
		sc.Steps = flagSteps
	}
	if cmd.Flags().Changed("dt") {
		sc.DT = flagDT
	}
	if cmd.Flags().Changed("output") {
		sc.Output = flagOutput
	}
	return sc.Validate()
}

func runRun(cmd *cobra.Command, args []string) error {
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
	e.RegisterObserver(observers.NewLogObserver(logger))

	var metrics *observers.MetricsObserver
	if flagMetrics {
		metrics = observers.NewMetricsObserver("")
		e.RegisterObserver(metrics)
	}

	var rec *observers.Recorder
	if flagRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err = startRecording(store, e, sc)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Running %q: %d robots, %d steps of %gs\n", sc.Name, e.RobotCount(), sc.Steps, sc.DT)
	if err := stepAndPrint(e, sc.Steps, sc.DT); err != nil {
		return err
	}

	if err := finish(e, sc.OutputPath(), rec); err != nil {
		return err
	}
	if metrics != nil {
		fmt.Println()
		return metrics.WriteSummary(os.Stdout)
	}
	return nil
}

// startRecording creates a run for sc, records the current state as frame 0
// and registers the recorder with e.
func startRecording(store *storage.Store, e *engine.Engine, sc config.Scenario) (*observers.Recorder, error) {
	doc, err := config.MarshalScenario(sc)
	if err != nil {
		return nil, err
	}
	runID, err := store.CreateRun(sc.Name, string(doc), sc.DT)
	if err != nil {
		return nil, err
	}

	rec := observers.NewRecorder(store, runID)
	if err := rec.Start(e.State()); err != nil {
		return nil, err
	}
	e.RegisterObserver(rec)
	logger.Info("recording run", "id", runID)
	return rec, nil
}

// stepAndPrint advances e by n steps of dt, printing the time after each.
func stepAndPrint(e *engine.Engine, n int, dt float64) error {
	return scenario.Run(e, n, dt, func(step int) {
		fmt.Printf("  step %4d  t=%.3fs\n", step, e.Time())
	})
}

// finish saves the final state and reports on the recording.
func finish(e *engine.Engine, output string, rec *observers.Recorder) error {
	if err := e.SaveStateToFile(output); err != nil {
		return err
	}
	fmt.Printf("Final state at t=%.3fs saved to %s\n", e.Time(), output)

	if rec != nil {
		if err := rec.Err(); err != nil {
			logger.Warn("recording stopped early", "error", err)
		}
		fmt.Printf("Recorded frames up to step %d\n", rec.Steps())
	}
	return nil
}
