// Package elements implements the built-in environment element kinds:
// static obstacles, moving gates and merge zones.
package elements

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// Element typeIds.
const (
	CircleTypeID = "CircleObstacle"
	BoxTypeID    = "BoxObstacle"
	GateTypeID   = "MovingGate"
	MergeTypeID  = "MergeZone"
)

// CircleObstacle is a static disc.
type CircleObstacle struct {
	shape core.Circle
}

type circleWire struct {
	Center *snapshot.Vec2   `json:"center"`
	Radius *snapshot.Scalar `json:"radius"`
}

// NewCircle creates a circular obstacle. Negative and NaN radii are treated
// as zero, as are NaN center coordinates.
func NewCircle(center r2.Vec, radius float64) *CircleObstacle {
	return &CircleObstacle{shape: circleShape(center, radius)}
}

// TypeID implements core.Element.
func (c *CircleObstacle) TypeID() string { return CircleTypeID }

// CheckCollision implements core.Element.
func (c *CircleObstacle) CheckCollision(p r2.Vec) bool { return c.shape.Contains(p) }

// Update implements core.Element. Circles are static.
func (c *CircleObstacle) Update(float64) {}

// Bounds implements core.Bounded.
func (c *CircleObstacle) Bounds() core.Rect { return c.shape.Bounds() }

// GetState implements core.Element.
func (c *CircleObstacle) GetState() string {
	return encodeCircle(c.shape)
}

// LoadState implements core.Element.
func (c *CircleObstacle) LoadState(payload string) error {
	shape, err := decodeCircle(payload)
	if err != nil {
		return fmt.Errorf("circle obstacle: %w", err)
	}
	c.shape = shape
	return nil
}

func encodeCircle(c core.Circle) string {
	center := snapshot.FromVec(c.Center)
	radius := snapshot.Scalar(c.Radius)
	return snapshot.Encode(circleWire{Center: &center, Radius: &radius})
}

func decodeCircle(payload string) (core.Circle, error) {
	var w circleWire
	if err := snapshot.Decode(payload, &w); err != nil {
		return core.Circle{}, err
	}
	if w.Center == nil || w.Radius == nil {
		return core.Circle{}, fmt.Errorf("%w: missing center or radius", snapshot.ErrDeserialize)
	}
	c := core.Circle{Center: w.Center.Vec(), Radius: float64(*w.Radius)}
	if hasNaN(c.Center.X, c.Center.Y, c.Radius) || c.Radius < 0 {
		return core.Circle{}, fmt.Errorf("%w: invalid circle %+v", snapshot.ErrDeserialize, c)
	}
	return c, nil
}

// circleShape sanitizes constructor input the same way decodeCircle
// validates it. Infinite values are kept.
func circleShape(center r2.Vec, radius float64) core.Circle {
	if math.IsNaN(radius) || radius < 0 {
		radius = 0
	}
	return core.Circle{Center: core.Vec(zeroNaN(center.X), zeroNaN(center.Y)), Radius: radius}
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func hasNaN(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
