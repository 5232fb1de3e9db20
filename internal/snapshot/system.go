package snapshot

import (
	"fmt"
	"math"
)

// FormatVersion is the version tag written into every serialized system state.
const FormatVersion = 1

// SystemState is an immutable snapshot of the whole simulation at one
// instant: the simulation time, one robot state per live robot in engine
// index order, and the environment state.
type SystemState struct {
	time   float64
	robots []RobotState
	env    *EnvironmentState
}

// NewSystemState builds a system state. It takes ownership of robots and env;
// callers must not modify them afterwards. A nil env stands for "no
// environment information".
func NewSystemState(time float64, robots []RobotState, env *EnvironmentState) *SystemState {
	return &SystemState{
		time:   time,
		robots: robots,
		env:    env,
	}
}

// Time returns the simulation time in seconds.
func (s *SystemState) Time() float64 { return s.time }

// RobotCount returns the number of robot states.
func (s *SystemState) RobotCount() int { return len(s.robots) }

// RobotState returns a copy of the i-th robot state.
func (s *SystemState) RobotState(i int) (RobotState, bool) {
	if i < 0 || i >= len(s.robots) {
		return nil, false
	}
	return s.robots[i].Clone(), true
}

// RobotStates returns copies of all robot states in index order.
func (s *SystemState) RobotStates() []RobotState {
	out := make([]RobotState, len(s.robots))
	for i, r := range s.robots {
		out[i] = r.Clone()
	}
	return out
}

// Environment returns a copy of the environment state, or nil when absent.
func (s *SystemState) Environment() *EnvironmentState {
	return s.env.Clone()
}

// Clone returns a deep copy sharing no mutable storage with s.
func (s *SystemState) Clone() *SystemState {
	return NewSystemState(s.time, s.RobotStates(), s.env.Clone())
}

type robotWire struct {
	Type  string `json:"type"`
	State string `json:"state"`
}

type systemWire struct {
	Version     int              `json:"version"`
	Time        *Scalar          `json:"time"`
	Robots      []robotWire      `json:"robots"`
	Environment *environmentWire `json:"environment,omitempty"`
}

// Serialize returns the deterministic JSON form of the system state.
// Robot and element payloads are embedded as opaque strings.
func (s *SystemState) Serialize() string {
	t := Scalar(s.time)
	w := systemWire{
		Version: FormatVersion,
		Time:    &t,
		Robots:  make([]robotWire, 0, len(s.robots)),
	}
	for _, r := range s.robots {
		w.Robots = append(w.Robots, robotWire{Type: r.TypeID(), State: r.Serialize()})
	}
	if s.env != nil {
		env := s.env.wire()
		w.Environment = &env
	}
	return Encode(w)
}

// Deserialize replaces the receiver's contents with the decoded state.
// Robot payloads are decoded through the registered state factories.
// The receiver is untouched on failure.
func (s *SystemState) Deserialize(data string) error {
	var w systemWire
	if err := Decode(data, &w); err != nil {
		return err
	}
	if w.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrDeserialize, w.Version)
	}
	if w.Time == nil {
		return fmt.Errorf("%w: missing time", ErrDeserialize)
	}
	t := float64(*w.Time)
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return fmt.Errorf("%w: invalid time %v", ErrDeserialize, t)
	}
	if w.Robots == nil {
		return fmt.Errorf("%w: missing robots", ErrDeserialize)
	}

	robots := make([]RobotState, 0, len(w.Robots))
	for i, rw := range w.Robots {
		rs, err := Create(rw.Type, rw.State)
		if err != nil {
			return fmt.Errorf("%w: robot %d: %w", ErrDeserialize, i, err)
		}
		robots = append(robots, rs)
	}

	var env *EnvironmentState
	if w.Environment != nil {
		elems, err := w.Environment.validate()
		if err != nil {
			return err
		}
		env = &EnvironmentState{elements: elems}
	}

	s.time = t
	s.robots = robots
	s.env = env
	return nil
}
