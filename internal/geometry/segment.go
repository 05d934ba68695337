package geometry

import "math"

// Segment is a straight walkable piece between two points.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Length returns the Euclidean length of s.
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Rounded returns s with both endpoints rounded.
func (s Segment) Rounded() Segment {
	return Segment{Start: s.Start.Rounded(), End: s.End.Rounded()}
}

// SegmentsFromPoints converts a polyline into consecutive segments.
func SegmentsFromPoints(points []Point) []Segment {
	if len(points) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		segs = append(segs, Segment{Start: points[i].Rounded(), End: points[i+1].Rounded()})
	}
	return segs
}

// SegmentsCross checks if two segments intersect. Segments that share an
// endpoint do not count as crossing.
func SegmentsCross(seg1, seg2 Segment) bool {
	p1, p2 := seg1.Start, seg1.End
	p3, p4 := seg2.Start, seg2.End

	if p1 == p3 || p1 == p4 || p2 == p3 || p2 == p4 {
		return false
	}

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 Point) float64 {
	return (p3.X-p1.X)*(p2.Y-p1.Y) - (p2.X-p1.X)*(p3.Y-p1.Y)
}

// onSegment checks if point q lies on segment pr
func onSegment(p, r, q Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}
