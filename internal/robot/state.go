package robot

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// PointState is the captured state of a PointRobot.
type PointState struct {
	Position        r2.Vec
	Orientation     float64
	Velocity        r2.Vec
	TargetVelocity  r2.Vec
	MaxAcceleration float64
}

type pointWire struct {
	Position        *snapshot.Vec2   `json:"position"`
	Orientation     *snapshot.Scalar `json:"orientation"`
	Velocity        *snapshot.Vec2   `json:"velocity"`
	TargetVelocity  *snapshot.Vec2   `json:"target_velocity"`
	MaxAcceleration *snapshot.Scalar `json:"max_acceleration"`
}

// TypeID implements snapshot.RobotState.
func (s *PointState) TypeID() string { return PointStateTypeID }

// Clone implements snapshot.RobotState.
func (s *PointState) Clone() snapshot.RobotState {
	cp := *s
	return &cp
}

// Pose returns the position and orientation for display.
func (s *PointState) Pose() (r2.Vec, float64) {
	return s.Position, s.Orientation
}

// Serialize implements snapshot.RobotState.
func (s *PointState) Serialize() string {
	pos := snapshot.FromVec(s.Position)
	theta := snapshot.Scalar(s.Orientation)
	vel := snapshot.FromVec(s.Velocity)
	target := snapshot.FromVec(s.TargetVelocity)
	accel := snapshot.Scalar(s.MaxAcceleration)
	return snapshot.Encode(pointWire{
		Position:        &pos,
		Orientation:     &theta,
		Velocity:        &vel,
		TargetVelocity:  &target,
		MaxAcceleration: &accel,
	})
}

// Deserialize implements snapshot.RobotState.
func (s *PointState) Deserialize(data string) error {
	var w pointWire
	if err := snapshot.Decode(data, &w); err != nil {
		return err
	}
	if w.Position == nil || w.Orientation == nil || w.Velocity == nil ||
		w.TargetVelocity == nil || w.MaxAcceleration == nil {
		return fmt.Errorf("%w: point robot state is missing fields", snapshot.ErrDeserialize)
	}
	accel := float64(*w.MaxAcceleration)
	if math.IsNaN(accel) || accel < 0 {
		return fmt.Errorf("%w: invalid max_acceleration %v", snapshot.ErrDeserialize, accel)
	}

	*s = PointState{
		Position:        w.Position.Vec(),
		Orientation:     float64(*w.Orientation),
		Velocity:        w.Velocity.Vec(),
		TargetVelocity:  w.TargetVelocity.Vec(),
		MaxAcceleration: accel,
	}
	return nil
}
