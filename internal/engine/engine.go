// Package engine drives a discrete-time simulation of mobile robots moving
// through an environment. It owns the robots and the environment, advances
// them atomically one step at a time, detects collisions and merge-point
// arrivals, notifies observers, and saves or restores the full system state.
//
// An Engine is not safe for concurrent use.
package engine

import (
	"fmt"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/environment"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// Engine owns an ordered list of robots, one environment and the
// simulation clock.
type Engine struct {
	time      float64
	robots    []core.Robot
	env       *environment.Environment
	observers []*Registration
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithEnvironment sets the engine's environment.
func WithEnvironment(env *environment.Environment) Option {
	return func(e *Engine) {
		if env != nil {
			e.env = env
		}
	}
}

// WithRobots adds robots in order.
func WithRobots(robots ...core.Robot) Option {
	return func(e *Engine) {
		for _, r := range robots {
			e.AddRobot(r)
		}
	}
}

// New creates an engine at time zero with an empty environment.
func New(opts ...Option) *Engine {
	e := &Engine{env: environment.New()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Time returns the simulation time in seconds.
func (e *Engine) Time() float64 {
	return e.time
}

// AddRobot appends a robot and returns its index. The engine takes
// ownership; the caller must not use the robot afterwards.
func (e *Engine) AddRobot(r core.Robot) int {
	if r == nil {
		panic("engine: nil robot")
	}
	e.robots = append(e.robots, r)
	return len(e.robots) - 1
}

// RemoveRobot removes the robot at index i. Later robots shift down by one.
func (e *Engine) RemoveRobot(i int) error {
	if i < 0 || i >= len(e.robots) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(e.robots))
	}
	e.robots = append(e.robots[:i], e.robots[i+1:]...)
	return nil
}

// RobotCount returns the number of robots.
func (e *Engine) RobotCount() int {
	return len(e.robots)
}

// RobotState returns a snapshot of the robot at index i.
func (e *Engine) RobotState(i int) (snapshot.RobotState, error) {
	if i < 0 || i >= len(e.robots) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(e.robots))
	}
	return e.robots[i].GetState(), nil
}

// SetEnvironment replaces the environment. A nil environment is replaced by
// an empty one.
func (e *Engine) SetEnvironment(env *environment.Environment) {
	if env == nil {
		env = environment.New()
	}
	e.env = env
}

// Environment returns the engine's environment.
func (e *Engine) Environment() *environment.Environment {
	return e.env
}

// Step advances the simulation by dt seconds:
//
//  1. every robot updates its state, in index order;
//  2. each robot is checked, in index order, for a collision and then for a
//     merge-point arrival, and the resulting events are queued;
//  3. the environment updates;
//  4. the clock advances by dt;
//  5. queued events, then the new state, are delivered to observers.
//
// A dt that is not strictly positive and finite is rejected with
// ErrInvalidStep before anything changes.
func (e *Engine) Step(dt float64) error {
	if !(dt > 0) || !core.Finite(dt) {
		return fmt.Errorf("%w: %v", ErrInvalidStep, dt)
	}

	for _, r := range e.robots {
		r.UpdateState(dt)
	}

	now := e.time + dt
	var events []pendingEvent
	for i, r := range e.robots {
		p := r.Position()
		if idx, el, ok := e.env.CheckCollision(p); ok {
			events = append(events, pendingEvent{collision: &CollisionEvent{
				Time:         now,
				RobotIndex:   i,
				Robot:        r.GetState(),
				ElementIndex: idx,
				Element:      snapshot.ElementState{TypeID: el.TypeID(), Payload: el.GetState()},
			}})
		}
		if idx, mp, ok := e.env.CheckMergePoint(p); ok {
			events = append(events, pendingEvent{merge: &MergeEvent{
				Time:         now,
				RobotIndex:   i,
				Robot:        r.GetState(),
				ElementIndex: idx,
				Element:      snapshot.ElementState{TypeID: mp.TypeID(), Payload: mp.GetState()},
			}})
		}
	}

	e.env.Update(dt)
	e.time = now

	e.notify(events, e.State())
	return nil
}

// State captures the full system state. The result shares no storage with
// the engine.
func (e *Engine) State() *snapshot.SystemState {
	robots := make([]snapshot.RobotState, len(e.robots))
	for i, r := range e.robots {
		robots[i] = r.GetState()
	}
	return snapshot.NewSystemState(e.time, robots, e.env.GetState())
}

// LoadState restores robots, clock and environment from s. The state must
// hold one robot state per live robot, in index order and of matching type.
// A state without environment information leaves the environment untouched.
//
// LoadState is atomic: on any error the engine is unchanged.
func (e *Engine) LoadState(s *snapshot.SystemState) error {
	if s == nil {
		return fmt.Errorf("%w: nil state", snapshot.ErrDeserialize)
	}
	if s.RobotCount() != len(e.robots) {
		return fmt.Errorf("%w: engine has %d robots, state has %d",
			snapshot.ErrCountMismatch, len(e.robots), s.RobotCount())
	}
	states := s.RobotStates()
	for i, r := range e.robots {
		if states[i].TypeID() != r.TypeID() {
			return fmt.Errorf("%w: robot %d is %q, state is %q",
				snapshot.ErrTypeMismatch, i, r.TypeID(), states[i].TypeID())
		}
	}
	envState := s.Environment()
	if envState != nil {
		if err := e.env.Validate(envState); err != nil {
			return err
		}
	}

	previous := make([]snapshot.RobotState, len(e.robots))
	for i, r := range e.robots {
		previous[i] = r.GetState()
	}

	for i, r := range e.robots {
		if err := r.LoadState(states[i]); err != nil {
			e.restoreRobots(previous[:i])
			return fmt.Errorf("engine: robot %d: %w", i, err)
		}
	}
	if envState != nil {
		if err := e.env.LoadState(envState); err != nil {
			e.restoreRobots(previous)
			return err
		}
	}

	e.time = s.Time()
	return nil
}

func (e *Engine) restoreRobots(states []snapshot.RobotState) {
	for i, st := range states {
		//nolint:errcheck // State was captured from this robot
		e.robots[i].LoadState(st)
	}
}
