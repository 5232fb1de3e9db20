package elements

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// MovingGate is a rectangle that slides back and forth along a straight
// track at constant speed, reversing at both ends.
//
// The motion is tracked as a phase in [0, 2L) where L is the track length:
// phases up to L move away from the start, the rest move back.
type MovingGate struct {
	base   core.Rect
	travel r2.Vec
	speed  float64
	phase  float64
}

type gateWire struct {
	Base   rectWire         `json:"base"`
	Travel *snapshot.Vec2   `json:"travel"`
	Speed  *snapshot.Scalar `json:"speed"`
	Phase  *snapshot.Scalar `json:"phase"`
}

// NewGate creates a gate whose rectangle starts at base and travels by
// travel before turning back. Non-finite travel components and speeds are
// treated as zero, which leaves the gate at rest.
func NewGate(base core.Rect, travel r2.Vec, speed float64) *MovingGate {
	return &MovingGate{
		base:   normRect(base),
		travel: core.Vec(finiteOrZero(travel.X), finiteOrZero(travel.Y)),
		speed:  finiteOrZero(speed),
	}
}

func finiteOrZero(v float64) float64 {
	if !core.Finite(v) {
		return 0
	}
	return v
}

// TypeID implements core.Element.
func (g *MovingGate) TypeID() string { return GateTypeID }

func (g *MovingGate) length() float64 { return r2.Norm(g.travel) }

// Offset returns the current displacement of the gate from its base.
func (g *MovingGate) Offset() r2.Vec {
	l := g.length()
	if l == 0 {
		return r2.Vec{}
	}
	d := g.phase
	if d > l {
		d = 2*l - d
	}
	return r2.Scale(d/l, g.travel)
}

// Rect returns the gate's current rectangle.
func (g *MovingGate) Rect() core.Rect {
	return g.base.Translate(g.Offset())
}

// CheckCollision implements core.Element.
func (g *MovingGate) CheckCollision(p r2.Vec) bool {
	return g.Rect().Contains(p)
}

// Update implements core.Element.
func (g *MovingGate) Update(dt float64) {
	l := g.length()
	if !(dt > 0) || l == 0 {
		return
	}
	period := 2 * l
	p := math.Mod(g.phase+g.speed*dt, period)
	if p < 0 {
		p += period
	}
	if p >= period {
		p = 0
	}
	if core.Finite(p) {
		g.phase = p
	}
}

// Bounds implements core.Bounded with the whole swept area.
func (g *MovingGate) Bounds() core.Rect {
	return g.base.Union(g.base.Translate(g.travel))
}

// GetState implements core.Element.
func (g *MovingGate) GetState() string {
	travel := snapshot.FromVec(g.travel)
	speed := snapshot.Scalar(g.speed)
	phase := snapshot.Scalar(g.phase)
	return snapshot.Encode(gateWire{
		Base:   wireRect(g.base),
		Travel: &travel,
		Speed:  &speed,
		Phase:  &phase,
	})
}

// LoadState implements core.Element.
func (g *MovingGate) LoadState(payload string) error {
	var w gateWire
	if err := snapshot.Decode(payload, &w); err != nil {
		return fmt.Errorf("moving gate: %w", err)
	}
	base, err := w.Base.rect()
	if err != nil {
		return fmt.Errorf("moving gate: %w", err)
	}
	if w.Travel == nil || w.Speed == nil || w.Phase == nil {
		return fmt.Errorf("moving gate: %w: missing travel, speed or phase", snapshot.ErrDeserialize)
	}
	next := MovingGate{
		base:   base,
		travel: w.Travel.Vec(),
		speed:  float64(*w.Speed),
		phase:  float64(*w.Phase),
	}
	if !core.Finite(next.travel.X, next.travel.Y, next.speed, next.phase) ||
		next.phase < 0 || (next.phase > 0 && next.phase >= 2*next.length()) {
		return fmt.Errorf("moving gate: %w: invalid motion", snapshot.ErrDeserialize)
	}
	*g = next
	return nil
}
