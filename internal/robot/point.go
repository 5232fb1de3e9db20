// Package robot implements the built-in mobile robot kinds.
package robot

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// PointStateTypeID identifies PointRobot states.
const PointStateTypeID = "PointRobotState"

// DefaultMaxAcceleration is used when no acceleration limit is given.
const DefaultMaxAcceleration = 1.0

// PointRobot is a holonomic point mass that accelerates toward a target
// velocity with bounded acceleration and faces along its velocity.
type PointRobot struct {
	position       r2.Vec
	orientation    float64
	velocity       r2.Vec
	targetVelocity r2.Vec
	maxAccel       float64
}

// Option configures a PointRobot at construction.
type Option func(*PointRobot)

// WithPosition sets the initial position.
func WithPosition(x, y float64) Option {
	return func(r *PointRobot) { r.position = core.Vec(x, y) }
}

// WithOrientation sets the initial orientation in radians.
func WithOrientation(theta float64) Option {
	return func(r *PointRobot) { r.orientation = theta }
}

// WithVelocity sets the initial velocity. The target velocity starts equal
// to it, so the robot cruises until told otherwise.
func WithVelocity(vx, vy float64) Option {
	return func(r *PointRobot) {
		r.velocity = core.Vec(vx, vy)
		r.targetVelocity = r.velocity
	}
}

// WithMaxAcceleration sets the acceleration limit. Negative or NaN values
// are treated as zero.
func WithMaxAcceleration(a float64) Option {
	return func(r *PointRobot) { r.maxAccel = sanitizeAccel(a) }
}

// NewPointRobot creates a robot at rest at the origin, facing along +X,
// unless options say otherwise.
func NewPointRobot(opts ...Option) *PointRobot {
	r := &PointRobot{maxAccel: DefaultMaxAcceleration}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func sanitizeAccel(a float64) float64 {
	if math.IsNaN(a) || a < 0 {
		return 0
	}
	return a
}

// TypeID implements core.Robot.
func (r *PointRobot) TypeID() string { return PointStateTypeID }

// Position implements core.Robot.
func (r *PointRobot) Position() r2.Vec { return r.position }

// Orientation returns the heading in radians.
func (r *PointRobot) Orientation() float64 { return r.orientation }

// Velocity returns the current velocity.
func (r *PointRobot) Velocity() r2.Vec { return r.velocity }

// TargetVelocity returns the velocity the robot accelerates toward.
func (r *PointRobot) TargetVelocity() r2.Vec { return r.targetVelocity }

// MaxAcceleration returns the acceleration limit.
func (r *PointRobot) MaxAcceleration() float64 { return r.maxAccel }

// SetTargetVelocity changes the velocity the robot accelerates toward.
func (r *PointRobot) SetTargetVelocity(vx, vy float64) {
	r.targetVelocity = core.Vec(vx, vy)
}

// SetMaxAcceleration changes the acceleration limit.
func (r *PointRobot) SetMaxAcceleration(a float64) {
	r.maxAccel = sanitizeAccel(a)
}

// UpdateState advances the robot by dt seconds. The velocity moves toward
// the target by at most maxAcceleration*dt, the position is integrated with
// the new velocity, and the orientation follows the velocity when the robot
// is moving.
func (r *PointRobot) UpdateState(dt float64) {
	if !(dt > 0) {
		return
	}

	dv := r2.Sub(r.targetVelocity, r.velocity)
	mag := r2.Norm(dv)
	if accel := mag / dt; accel > r.maxAccel {
		r.velocity = r2.Add(r.velocity, r2.Scale(r.maxAccel/accel, dv))
	} else {
		r.velocity = r.targetVelocity
	}

	r.position = r2.Add(r.position, r2.Scale(dt, r.velocity))
	r.orientation = core.Heading(r.velocity, r.orientation)
}

// GetState implements core.Robot.
func (r *PointRobot) GetState() snapshot.RobotState {
	return &PointState{
		Position:        r.position,
		Orientation:     r.orientation,
		Velocity:        r.velocity,
		TargetVelocity:  r.targetVelocity,
		MaxAcceleration: r.maxAccel,
	}
}

// LoadState implements core.Robot.
func (r *PointRobot) LoadState(s snapshot.RobotState) error {
	ps, ok := s.(*PointState)
	if !ok || ps == nil {
		return fmt.Errorf("%w: point robot cannot load %s", snapshot.ErrTypeMismatch, describe(s))
	}
	r.position = ps.Position
	r.orientation = ps.Orientation
	r.velocity = ps.Velocity
	r.targetVelocity = ps.TargetVelocity
	r.maxAccel = sanitizeAccel(ps.MaxAcceleration)
	return nil
}

func describe(s snapshot.RobotState) string {
	if s == nil {
		return "nil state"
	}
	return fmt.Sprintf("%q", s.TypeID())
}
