// Package environment holds the ordered collection of elements robots move
// through and answers first-match collision and merge-point queries.
package environment

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// Environment is an ordered list of elements. Insertion order is
// significant: queries return the first matching element, and updates and
// snapshots follow the same order.
type Environment struct {
	elements []core.Element
}

// New creates an environment holding elems in order.
func New(elems ...core.Element) *Environment {
	env := &Environment{}
	for _, e := range elems {
		env.AddElement(e)
	}
	return env
}

// AddElement appends an element. The environment takes ownership of it.
// Nil elements are ignored.
func (env *Environment) AddElement(e core.Element) {
	if e == nil {
		return
	}
	env.elements = append(env.elements, e)
}

// Len returns the number of elements.
func (env *Environment) Len() int {
	return len(env.elements)
}

// Element returns the i-th element.
func (env *Environment) Element(i int) (core.Element, bool) {
	if i < 0 || i >= len(env.elements) {
		return nil, false
	}
	return env.elements[i], true
}

// CheckCollision returns the first element, in insertion order, that
// reports a collision at p.
func (env *Environment) CheckCollision(p r2.Vec) (int, core.Element, bool) {
	for i, e := range env.elements {
		if e.CheckCollision(p) {
			return i, e, true
		}
	}
	return -1, nil, false
}

// CheckMergePoint returns the first merge point, in insertion order, that
// p has reached.
func (env *Environment) CheckMergePoint(p r2.Vec) (int, core.MergePoint, bool) {
	for i, e := range env.elements {
		if mp, ok := e.(core.MergePoint); ok && mp.Reached(p) {
			return i, mp, true
		}
	}
	return -1, nil, false
}

// Update advances every element by dt in insertion order.
func (env *Environment) Update(dt float64) {
	for _, e := range env.elements {
		e.Update(dt)
	}
}

// Bounds returns the union of the extents of all elements that report one.
func (env *Environment) Bounds() (core.Rect, bool) {
	var (
		out   core.Rect
		found bool
	)
	for _, e := range env.elements {
		b, ok := e.(core.Bounded)
		if !ok {
			continue
		}
		if !found {
			out, found = b.Bounds(), true
			continue
		}
		out = out.Union(b.Bounds())
	}
	return out, found
}

// GetState captures the state of every element in insertion order.
func (env *Environment) GetState() *snapshot.EnvironmentState {
	s := snapshot.NewEnvironmentState()
	for _, e := range env.elements {
		s.Add(e.TypeID(), e.GetState())
	}
	return s
}

// Validate checks that s has one state per element with matching typeIds,
// without applying anything.
func (env *Environment) Validate(s *snapshot.EnvironmentState) error {
	if s.Len() != len(env.elements) {
		return fmt.Errorf("%w: environment has %d elements, state has %d",
			snapshot.ErrCountMismatch, len(env.elements), s.Len())
	}
	for i, e := range env.elements {
		es, _ := s.Element(i)
		if es.TypeID != e.TypeID() {
			return fmt.Errorf("%w: element %d is %q, state is %q",
				snapshot.ErrTypeMismatch, i, e.TypeID(), es.TypeID)
		}
	}
	return nil
}

// LoadState restores every element from s. Either all elements are
// restored or, on error, none are.
func (env *Environment) LoadState(s *snapshot.EnvironmentState) error {
	if err := env.Validate(s); err != nil {
		return err
	}

	previous := make([]string, len(env.elements))
	for i, e := range env.elements {
		previous[i] = e.GetState()
	}

	for i, e := range env.elements {
		es, _ := s.Element(i)
		if err := e.LoadState(es.Payload); err != nil {
			env.restore(previous[:i])
			return fmt.Errorf("environment: element %d: %w", i, err)
		}
	}
	return nil
}

// restore reapplies captured payloads to the leading elements. The payloads
// came from the elements themselves, so reloading them cannot fail.
func (env *Environment) restore(payloads []string) {
	for i, p := range payloads {
		//nolint:errcheck // Payload was produced by this element
		env.elements[i].LoadState(p)
	}
}
