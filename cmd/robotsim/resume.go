package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/robotsim/internal/config"
	"github.com/vovakirdan/robotsim/internal/engine"
	"github.com/vovakirdan/robotsim/internal/observers"
	"github.com/vovakirdan/robotsim/internal/scenario"
	"github.com/vovakirdan/robotsim/internal/snapshot"
	"github.com/vovakirdan/robotsim/internal/storage"
)

var (
	flagStateFile string
	flagRun       string
	flagFrom      int
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Continue a simulation from a saved state or recorded run",
	Long: `Rebuild the scenario topology, restore a saved state and keep stepping.

With --state the scenario comes from --scenario and the search order; the
state file must match its robots and elements. With --run the scenario
stored with the recording is used, and the run resumes from --from (or its
last frame). Recording a resumed run discards its frames after that step.

Examples:
  robotsim resume --state simulation_final_state.json --steps 50
  robotsim resume --run 3f2a --from 20 --record`,
	Args: cobra.NoArgs,
	RunE: runResume,
}

func init() {
	addStepFlags(resumeCmd)
	resumeCmd.Flags().StringVar(&flagStateFile, "state", "", "State file written by run or watch")
	resumeCmd.Flags().StringVar(&flagRun, "run", "", "Recorded run ID or unique prefix")
	resumeCmd.Flags().IntVar(&flagFrom, "from", -1, "Frame to resume a recorded run from (default: last)")
	resumeCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the resumed steps")
	resumeCmd.MarkFlagsMutuallyExclusive("state", "run")
	resumeCmd.MarkFlagsOneRequired("state", "run")
}

func runResume(cmd *cobra.Command, args []string) error {
	if flagRun != "" {
		return resumeRun(cmd)
	}

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
	if err := e.LoadStateFromFile(flagStateFile); err != nil {
		return err
	}
	e.RegisterObserver(observers.NewLogObserver(logger))

	var rec *observers.Recorder
	if flagRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if rec, err = startRecording(store, e, sc); err != nil {
			return err
		}
	}

	fmt.Printf("Resuming %q at t=%.3fs for %d steps\n", sc.Name, e.Time(), sc.Steps)
	if err := stepAndPrint(e, sc.Steps, sc.DT); err != nil {
		return err
	}
	return finish(e, sc.OutputPath(), rec)
}

func resumeRun(cmd *cobra.Command) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.ResolveRun(flagRun)
	if err != nil {
		return err
	}
	sc, err := config.ParseScenario([]byte(run.Scenario))
	if err != nil {
		return fmt.Errorf("run %s: %w", run.ID, err)
	}
	sc.DT = run.DT
	if err := applyStepFlags(cmd, &sc); err != nil {
		return err
	}

	e, frame, err := restoreRun(store, run, sc, flagFrom)
	if err != nil {
		return err
	}
	e.RegisterObserver(observers.NewLogObserver(logger))

	var rec *observers.Recorder
	if flagRecord {
		if sc.DT != run.DT {
			return fmt.Errorf("cannot record into run %s with dt %g, it was recorded with dt %g", run.ID, sc.DT, run.DT)
		}
		if err := store.DeleteFramesAfter(run.ID, frame.Step); err != nil {
			return err
		}
		rec = observers.NewRecorder(store, run.ID)
		rec.StartAt(frame.Step)
		e.RegisterObserver(rec)
	}

	fmt.Printf("Resuming run %s at step %d (t=%.3fs) for %d steps\n", shortID(run.ID), frame.Step, e.Time(), sc.Steps)
	if err := stepAndPrint(e, sc.Steps, sc.DT); err != nil {
		return err
	}
	return finish(e, sc.OutputPath(), rec)
}

// restoreRun rebuilds a recorded run's topology and loads frame step into
// it. A negative step selects the last recorded frame.
func restoreRun(store *storage.Store, run *storage.Run, sc config.Scenario, step int) (*engine.Engine, *storage.Frame, error) {
	var (
		frame *storage.Frame
		err   error
	)
	if step < 0 {
		frame, err = store.LastFrame(run.ID)
	} else {
		frame, err = store.Frame(run.ID, step)
	}
	if err != nil {
		return nil, nil, err
	}
	if frame == nil && step < 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", shortID(run.ID))
	}
	if frame == nil {
		return nil, nil, fmt.Errorf("run %s has no frame %d", shortID(run.ID), step)
	}

	e, err := scenario.Build(sc)
	if err != nil {
		return nil, nil, err
	}

	var state snapshot.SystemState
	if err := state.Deserialize(frame.State); err != nil {
		return nil, nil, fmt.Errorf("frame %d: %w", frame.Step, err)
	}
	if err := e.LoadState(&state); err != nil {
		return nil, nil, fmt.Errorf("frame %d: %w", frame.Step, err)
	}
	return e, frame, nil
}
