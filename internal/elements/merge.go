package elements

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/core"
)

// MergeZone marks a circular area where traffic merges. It never reports a
// collision; robots inside it are reported through Reached.
type MergeZone struct {
	zone core.Circle
}

var _ core.MergePoint = (*MergeZone)(nil)

// NewMergeZone creates a merge zone. Negative and NaN radii are treated as
// zero, as are NaN center coordinates.
func NewMergeZone(center r2.Vec, radius float64) *MergeZone {
	return &MergeZone{zone: circleShape(center, radius)}
}

// TypeID implements core.Element.
func (m *MergeZone) TypeID() string { return MergeTypeID }

// CheckCollision implements core.Element. Merge zones are passable.
func (m *MergeZone) CheckCollision(r2.Vec) bool { return false }

// Reached implements core.MergePoint.
func (m *MergeZone) Reached(p r2.Vec) bool { return m.zone.Contains(p) }

// Update implements core.Element. Merge zones are static.
func (m *MergeZone) Update(float64) {}

// Bounds implements core.Bounded.
func (m *MergeZone) Bounds() core.Rect { return m.zone.Bounds() }

// GetState implements core.Element.
func (m *MergeZone) GetState() string { return encodeCircle(m.zone) }

// LoadState implements core.Element.
func (m *MergeZone) LoadState(payload string) error {
	zone, err := decodeCircle(payload)
	if err != nil {
		return fmt.Errorf("merge zone: %w", err)
	}
	m.zone = zone
	return nil
}
