package elements

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// BoxObstacle is a static axis-aligned rectangle.
type BoxObstacle struct {
	rect core.Rect
}

type rectWire struct {
	Min *snapshot.Vec2 `json:"min"`
	Max *snapshot.Vec2 `json:"max"`
}

// NewBox creates a rectangular obstacle. Infinite extents are allowed, so
// a box can stand for a half-plane wall. NaN coordinates are treated as zero.
func NewBox(r core.Rect) *BoxObstacle {
	return &BoxObstacle{rect: normRect(r)}
}

// TypeID implements core.Element.
func (b *BoxObstacle) TypeID() string { return BoxTypeID }

// CheckCollision implements core.Element.
func (b *BoxObstacle) CheckCollision(p r2.Vec) bool { return b.rect.Contains(p) }

// Update implements core.Element. Boxes are static.
func (b *BoxObstacle) Update(float64) {}

// Bounds implements core.Bounded.
func (b *BoxObstacle) Bounds() core.Rect { return b.rect }

// GetState implements core.Element.
func (b *BoxObstacle) GetState() string {
	return snapshot.Encode(wireRect(b.rect))
}

// LoadState implements core.Element.
func (b *BoxObstacle) LoadState(payload string) error {
	var w rectWire
	if err := snapshot.Decode(payload, &w); err != nil {
		return fmt.Errorf("box obstacle: %w", err)
	}
	r, err := w.rect()
	if err != nil {
		return fmt.Errorf("box obstacle: %w", err)
	}
	b.rect = r
	return nil
}

func wireRect(r core.Rect) rectWire {
	lo, hi := snapshot.FromVec(r.Min), snapshot.FromVec(r.Max)
	return rectWire{Min: &lo, Max: &hi}
}

func (w rectWire) rect() (core.Rect, error) {
	if w.Min == nil || w.Max == nil {
		return core.Rect{}, fmt.Errorf("%w: missing min or max", snapshot.ErrDeserialize)
	}
	r := core.Rect{Min: w.Min.Vec(), Max: w.Max.Vec()}
	if hasNaN(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y) || r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		return core.Rect{}, fmt.Errorf("%w: invalid rectangle %+v", snapshot.ErrDeserialize, r)
	}
	return r, nil
}

// normRect orders the corners of r and replaces NaN coordinates with zero.
func normRect(r core.Rect) core.Rect {
	x0, x1 := zeroNaN(r.Min.X), zeroNaN(r.Max.X)
	y0, y1 := zeroNaN(r.Min.Y), zeroNaN(r.Max.Y)
	return core.Rect{
		Min: core.Vec(math.Min(x0, x1), math.Min(y0, y1)),
		Max: core.Vec(math.Max(x0, x1), math.Max(y0, y1)),
	}
}
