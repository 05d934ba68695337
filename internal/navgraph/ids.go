package navgraph

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"floorplan-navigator/internal/geometry"
)

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeID replaces every character outside [A-Za-z0-9_] with '_'.
func SanitizeID(s string) string {
	return unsafeIDChars.ReplaceAllString(s, "_")
}

// NodeID builds a node id from its type, rounded position and a suffix that
// disambiguates nodes placed at the same spot.
func NodeID(t NodeType, pos geometry.Point, suffix string) string {
	id := fmt.Sprintf("NODE_%s_%d_%d", t, int(math.Round(pos.X)), int(math.Round(pos.Y)))
	if suffix != "" {
		id += "_" + suffix
	}
	return SanitizeID(id)
}

// EdgeID returns the same id for (a, b) and (b, a).
func EdgeID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return SanitizeID("EDGE_" + a + "_" + b)
}

// pairKey is an unambiguous unordered key for two node ids.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return strings.Join([]string{a, b}, "\x00")
}
