package geometry

import "github.com/paulmach/orb"

// Bounds is an axis-aligned rectangle. Width and Height are never negative once
// the value has gone through NormalizeBounds.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizeBounds flips the origin for negative extents and rounds all fields.
func NormalizeBounds(b Bounds) Bounds {
	if b.Width < 0 {
		b.X += b.Width
		b.Width = -b.Width
	}
	if b.Height < 0 {
		b.Y += b.Height
		b.Height = -b.Height
	}
	return Bounds{
		X:      Round(b.X),
		Y:      Round(b.Y),
		Width:  Round(b.Width),
		Height: Round(b.Height),
	}
}

// Center returns the rounded center of b.
func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}.Rounded()
}

// Area returns width times height.
func (b Bounds) Area() float64 {
	return b.Width * b.Height
}

// Bound converts b to an orb.Bound.
func (b Bounds) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.X, b.Y},
		Max: orb.Point{b.X + b.Width, b.Y + b.Height},
	}
}

// FromBound converts an orb.Bound to rounded Bounds.
func FromBound(bound orb.Bound) Bounds {
	return NormalizeBounds(Bounds{
		X:      bound.Min[0],
		Y:      bound.Min[1],
		Width:  bound.Max[0] - bound.Min[0],
		Height: bound.Max[1] - bound.Min[1],
	})
}

// BoundingBox calculates the axis-aligned bounding box of a point set.
// ok is false when points is empty.
func BoundingBox(points []Point) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	ring := make(orb.Ring, 0, len(points))
	for _, p := range points {
		ring = append(ring, p.Orb())
	}
	return FromBound(ring.Bound()), true
}

// Extent accumulates the union of points and rectangles.
// The zero value is an empty extent.
type Extent struct {
	bound orb.Bound
	init  bool
}

// AddPoint grows the extent to cover p.
func (e *Extent) AddPoint(p Point) {
	if !e.init {
		e.bound = orb.Bound{Min: p.Orb(), Max: p.Orb()}
		e.init = true
		return
	}
	e.bound = e.bound.Extend(p.Orb())
}

// AddBounds grows the extent to cover b.
func (e *Extent) AddBounds(b Bounds) {
	if !e.init {
		e.bound = b.Bound()
		e.init = true
		return
	}
	e.bound = e.bound.Union(b.Bound())
}

// Empty reports whether nothing was added.
func (e *Extent) Empty() bool {
	return !e.init
}

// Bounds returns the accumulated rectangle, or the zero Bounds when empty.
func (e *Extent) Bounds() Bounds {
	if !e.init {
		return Bounds{}
	}
	return FromBound(e.bound)
}
