// Package core provides the entity contracts and the planar geometry shared
// by the simulator. It has no dependency on the engine, the terminal or
// storage so that robot and element logic stays pure and testable.
package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// HeadingEpsilon is the speed below which a robot keeps its previous
// orientation instead of facing along its velocity.
const HeadingEpsilon = 1e-6

// Vec builds a vector from its components.
func Vec(x, y float64) r2.Vec {
	return r2.Vec{X: x, Y: y}
}

// Rect is an axis-aligned rectangle in world coordinates. Bounds are inclusive.
type Rect struct {
	Min, Max r2.Vec
}

// NewRect creates a rectangle from its lower-left corner and size.
// Negative sizes are normalized so that Min <= Max.
func NewRect(x, y, w, h float64) Rect {
	r := Rect{Min: Vec(x, y), Max: Vec(x+w, y+h)}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Width returns the extent along X.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the extent along Y.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Contains reports whether p lies inside or on the border of r.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects returns true if this rectangle overlaps with another.
// Touching borders count as overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.Min.X > other.Max.X || other.Min.X > r.Max.X {
		return false
	}
	if r.Min.Y > other.Max.Y || other.Min.Y > r.Max.Y {
		return false
	}
	return true
}

// Center returns the center point of the rectangle.
func (r Rect) Center() r2.Vec {
	return r2.Scale(0.5, r2.Add(r.Min, r.Max))
}

// Translate returns r moved by d.
func (r Rect) Translate(d r2.Vec) Rect {
	return Rect{Min: r2.Add(r.Min, d), Max: r2.Add(r.Max, d)}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Vec(math.Min(r.Min.X, other.Min.X), math.Min(r.Min.Y, other.Min.Y)),
		Max: Vec(math.Max(r.Max.X, other.Max.X), math.Max(r.Max.Y, other.Max.Y)),
	}
}

// Expand returns r grown by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Min: r2.Sub(r.Min, Vec(margin, margin)),
		Max: r2.Add(r.Max, Vec(margin, margin)),
	}
}

// Circle is a disc in world coordinates.
type Circle struct {
	Center r2.Vec
	Radius float64
}

// Contains reports whether p lies inside or on the border of c.
func (c Circle) Contains(p r2.Vec) bool {
	return r2.Norm(r2.Sub(p, c.Center)) <= c.Radius
}

// Bounds returns the bounding box of c.
func (c Circle) Bounds() Rect {
	return Rect{
		Min: r2.Sub(c.Center, Vec(c.Radius, c.Radius)),
		Max: r2.Add(c.Center, Vec(c.Radius, c.Radius)),
	}
}

// Heading returns the direction of v in radians, or prev when the speed of v
// does not exceed HeadingEpsilon.
func Heading(v r2.Vec, prev float64) float64 {
	if r2.Norm(v) <= HeadingEpsilon {
		return prev
	}
	return math.Atan2(v.Y, v.X)
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
