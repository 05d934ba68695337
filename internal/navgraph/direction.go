package navgraph

import (
	"math"

	"floorplan-navigator/internal/geometry"
)

// DirectionBetween quantizes the heading from one point to another into a
// cardinal direction. Angles are measured with y pointing down, so 90 degrees
// is south. Bracket edges belong to the bracket they open: 45 is south,
// 135 west, 225 north, 315 east.
func DirectionBetween(from, to geometry.Point) Direction {
	angle := geometry.Round(math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi)
	if angle < 0 {
		angle += 360
	}
	switch {
	case angle >= 315 || angle < 45:
		return East
	case angle < 135:
		return South
	case angle < 225:
		return West
	default:
		return North
	}
}
