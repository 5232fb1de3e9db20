package elements

import (
	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/registry"
)

// Scenario kind names.
const (
	CircleKind = "circle"
	BoxKind    = "box"
	GateKind   = "gate"
	MergeKind  = "merge"
)

var (
	_ core.Bounded = (*CircleObstacle)(nil)
	_ core.Bounded = (*BoxObstacle)(nil)
	_ core.Bounded = (*MovingGate)(nil)
	_ core.Bounded = (*MergeZone)(nil)
)

func init() {
	registry.RegisterElement(registry.ElementKind{
		Kind:   CircleKind,
		Title:  "Circular obstacle",
		TypeID: CircleTypeID,
		Build: func(p registry.Params) (core.Element, error) {
			if err := p.Check("x", "y", "radius"); err != nil {
				return nil, err
			}
			return NewCircle(core.Vec(p.Float("x", 0), p.Float("y", 0)), p.Float("radius", 1)), nil
		},
		New: func() core.Element { return &CircleObstacle{} },
	})

	registry.RegisterElement(registry.ElementKind{
		Kind:   BoxKind,
		Title:  "Rectangular obstacle",
		TypeID: BoxTypeID,
		Build: func(p registry.Params) (core.Element, error) {
			if err := p.Check("x", "y", "w", "h"); err != nil {
				return nil, err
			}
			return NewBox(core.NewRect(p.Float("x", 0), p.Float("y", 0), p.Float("w", 1), p.Float("h", 1))), nil
		},
		New: func() core.Element { return &BoxObstacle{} },
	})

	registry.RegisterElement(registry.ElementKind{
		Kind:   GateKind,
		Title:  "Moving gate",
		TypeID: GateTypeID,
		Build: func(p registry.Params) (core.Element, error) {
			if err := p.Check("x", "y", "w", "h", "dx", "dy", "speed"); err != nil {
				return nil, err
			}
			base := core.NewRect(p.Float("x", 0), p.Float("y", 0), p.Float("w", 1), p.Float("h", 1))
			return NewGate(base, core.Vec(p.Float("dx", 0), p.Float("dy", 0)), p.Float("speed", 1)), nil
		},
		New: func() core.Element { return &MovingGate{} },
	})

	registry.RegisterElement(registry.ElementKind{
		Kind:   MergeKind,
		Title:  "Merge zone",
		TypeID: MergeTypeID,
		Build: func(p registry.Params) (core.Element, error) {
			if err := p.Check("x", "y", "radius"); err != nil {
				return nil, err
			}
			return NewMergeZone(core.Vec(p.Float("x", 0), p.Float("y", 0)), p.Float("radius", 1)), nil
		},
		New: func() core.Element { return &MergeZone{} },
	})
}
