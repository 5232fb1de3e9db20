package core

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// Robot is the contract every simulated mobile robot implements.
// A robot is owned by at most one engine at a time.
type Robot interface {
	// TypeID returns the stable identifier shared with the robot's states.
	TypeID() string

	// Position returns the current position in world coordinates.
	Position() r2.Vec

	// UpdateState advances the robot's dynamics by dt seconds.
	// Non-positive dt leaves the robot unchanged.
	UpdateState(dt float64)

	// GetState captures the robot's full state. The result shares no
	// storage with the robot.
	GetState() snapshot.RobotState

	// LoadState restores a previously captured state. States of another
	// kind are rejected with snapshot.ErrTypeMismatch and leave the robot
	// unchanged.
	LoadState(s snapshot.RobotState) error
}

// Element is a static or dynamic feature of the environment.
type Element interface {
	// TypeID returns the stable identifier of the element kind.
	TypeID() string

	// CheckCollision reports whether p is occupied by the element.
	CheckCollision(p r2.Vec) bool

	// Update advances the element's dynamics by dt seconds.
	Update(dt float64)

	// GetState returns the element's serialized payload.
	GetState() string

	// LoadState restores a payload produced by GetState. On failure the
	// element is left unchanged.
	LoadState(payload string) error
}

// MergePoint is an element marking a location where traffic merges.
// Merge points never report collisions.
type MergePoint interface {
	Element

	// Reached reports whether a robot at p is inside the merge zone.
	Reached(p r2.Vec) bool
}

// Bounded is implemented by elements that can report their extent, used to
// fit a viewport around the scene.
type Bounded interface {
	Bounds() Rect
}

// Posed is implemented by robot states that expose a pose for display.
type Posed interface {
	Pose() (position r2.Vec, orientation float64)
}
