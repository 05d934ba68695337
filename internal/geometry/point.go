// Package geometry holds the planar primitives shared by the scanner, the graph
// builder and the pathfinder.
//
// Every coordinate that leaves this package is rounded to Precision decimal
// places so that equality and hashing are reproducible across runs.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// Precision is the number of decimal places kept for coordinates and distances.
const Precision = 2

var precisionFactor = math.Pow(10, Precision)

// Point is a 2D coordinate in floor-plan units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Round rounds v to Precision decimal places. Negative zero is folded to zero.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r := math.Round(v*precisionFactor) / precisionFactor
	if r == 0 {
		return 0
	}
	return r
}

// Rounded returns p with both coordinates rounded.
func (p Point) Rounded() Point {
	return Point{X: Round(p.X), Y: Round(p.Y)}
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Within reports whether two points are at most tolerance apart.
func (p Point) Within(other Point, tolerance float64) bool {
	return p.Distance(other) <= tolerance
}

// Orb converts p to an orb.Point.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// FromOrb converts an orb.Point back, rounding it.
func FromOrb(p orb.Point) Point {
	return Point{X: p[0], Y: p[1]}.Rounded()
}

// Mean returns the rounded coordinate average of points. The zero Point is
// returned for an empty slice.
func Mean(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return Point{X: sx / n, Y: sy / n}.Rounded()
}

// Less orders points top-to-bottom, then left-to-right.
func Less(a, b Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
