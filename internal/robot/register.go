package robot

import (
	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/registry"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// PointKind is the scenario name of the point robot.
const PointKind = "point"

func init() {
	snapshot.Register(PointStateTypeID, func() snapshot.RobotState { return &PointState{} })

	registry.RegisterRobot(registry.RobotKind{
		Kind:   PointKind,
		Title:  "Point robot",
		TypeID: PointStateTypeID,
		Build:  buildPoint,
	})
}

// buildPoint creates a point robot from scenario parameters:
// x, y, theta, vx, vy, target_vx, target_vy, max_accel.
func buildPoint(p registry.Params) (core.Robot, error) {
	if err := p.Check("x", "y", "theta", "vx", "vy", "target_vx", "target_vy", "max_accel"); err != nil {
		return nil, err
	}

	r := NewPointRobot(
		WithPosition(p.Float("x", 0), p.Float("y", 0)),
		WithOrientation(p.Float("theta", 0)),
		WithVelocity(p.Float("vx", 0), p.Float("vy", 0)),
		WithMaxAcceleration(p.Float("max_accel", DefaultMaxAcceleration)),
	)
	target := r.TargetVelocity()
	r.SetTargetVelocity(p.Float("target_vx", target.X), p.Float("target_vy", target.Y))
	return r, nil
}
