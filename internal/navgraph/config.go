package navgraph

import (
	"log/slog"
	"time"
)

// IntersectionScope limits which nodes an intersection node is linked to.
type IntersectionScope string

const (
	// ScopeSharedPath links an intersection only to nodes on one of its paths.
	ScopeSharedPath IntersectionScope = "shared-path"
	// ScopeRadius links an intersection to every node within range.
	ScopeRadius IntersectionScope = "radius"
)

// Config holds the graph builder thresholds.
type Config struct {
	// Source overrides the scan's source in the graph metadata.
	Source string `json:"-" yaml:"-"`

	// MergeThreshold is the distance at or under which nodes collapse into one.
	MergeThreshold float64 `json:"merge_threshold" yaml:"merge_threshold" validate:"gt=0"`

	// MinEdgeDistance drops edges shorter than this.
	MinEdgeDistance float64 `json:"min_edge_distance" yaml:"min_edge_distance" validate:"gte=0"`

	// RoomCorridorDistance bounds doorway and intersection edges.
	RoomCorridorDistance float64 `json:"room_corridor_distance" yaml:"room_corridor_distance" validate:"gt=0"`

	CalculateDirections bool              `json:"calculate_directions" yaml:"calculate_directions"`
	IntersectionScope   IntersectionScope `json:"intersection_scope" yaml:"intersection_scope" validate:"omitempty,oneof=shared-path radius"`

	// DetectCrossings warns about paths that cross without a shared node.
	DetectCrossings bool `json:"detect_crossings" yaml:"detect_crossings"`

	Now    func() time.Time `json:"-" yaml:"-"`
	Logger *slog.Logger     `json:"-" yaml:"-"`
}

// DefaultConfig returns the builder defaults.
func DefaultConfig() Config {
	return Config{
		MergeThreshold:       5,
		MinEdgeDistance:      1,
		RoomCorridorDistance: 50,
		CalculateDirections:  true,
		IntersectionScope:    ScopeSharedPath,
		DetectCrossings:      true,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}
