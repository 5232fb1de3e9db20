package observers

import (
	"fmt"

	"github.com/vovakirdan/robotsim/internal/engine"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// FrameSink persists serialized system states of a recorded run.
type FrameSink interface {
	SaveFrame(runID string, step int, time float64, state string) error
}

// Recorder writes every step's system state to a FrameSink as a numbered
// frame. Frame 0 is the initial state written by Start; step n is frame n.
//
// Sink failures do not interrupt the simulation: the first error is kept,
// recording stops, and the error is available from Err.
type Recorder struct {
	engine.BaseObserver

	sink  FrameSink
	runID string
	step  int
	err   error
}

// NewRecorder creates a recorder for runID.
func NewRecorder(sink FrameSink, runID string) *Recorder {
	return &Recorder{sink: sink, runID: runID}
}

// Start records state as frame 0.
func (r *Recorder) Start(state *snapshot.SystemState) error {
	r.step = 0
	r.err = nil
	r.save(state)
	return r.err
}

// StartAt continues numbering after an existing frame.
func (r *Recorder) StartAt(step int) {
	r.step = step
	r.err = nil
}

func (r *Recorder) OnStep(state *snapshot.SystemState) {
	if r.err != nil {
		return
	}
	r.step++
	r.save(state)
}

func (r *Recorder) save(state *snapshot.SystemState) {
	if err := r.sink.SaveFrame(r.runID, r.step, state.Time(), state.Serialize()); err != nil {
		r.err = fmt.Errorf("record frame %d: %w", r.step, err)
	}
}

// Steps returns the number of the last frame recorded.
func (r *Recorder) Steps() int {
	return r.step
}

// Err returns the first sink error, if any.
func (r *Recorder) Err() error {
	return r.err
}
