package scanner

import (
	"time"

	"floorplan-navigator/internal/geometry"
)

// Version is reported in every ScanResult.
const Version = "1.0.0"

// RoomType classifies a room. Known values are listed below; structured input
// may carry any other string (e.g. "washroom") which is preserved as-is.
type RoomType string

const (
	RoomTypeRoom     RoomType = "room"
	RoomTypeStair    RoomType = "stair"
	RoomTypeElevator RoomType = "elevator"
	RoomTypeExit     RoomType = "exit"
	RoomTypeOffice   RoomType = "office"
)

// PathType classifies a walkable path.
type PathType string

const (
	PathTypeCorridor   PathType = "corridor"
	PathTypeHallway    PathType = "hallway"
	PathTypeWalkway    PathType = "walkway"
	PathTypeConnection PathType = "connection"
)

// Format is the detected top-level input format.
type Format string

const (
	FormatUnknown    Format = "unknown"
	FormatMarkup     Format = "svg"
	FormatStructured Format = "json"
	FormatRaster     Format = "image"
)

// Room is an enclosed area extracted from the plan.
type Room struct {
	ID         string          `json:"id"`
	Bounds     geometry.Bounds `json:"bounds"`
	Label      string          `json:"label,omitempty"`
	Type       RoomType        `json:"type"`
	Confidence float64         `json:"confidence"`
}

// Path is a walkable polyline made of consecutive segments.
type Path struct {
	ID         string             `json:"id"`
	Type       PathType           `json:"type"`
	Segments   []geometry.Segment `json:"segments"`
	Width      *float64           `json:"width,omitempty"`
	Confidence float64            `json:"confidence"`
}

// Label is a free-floating text found in the plan.
type Label struct {
	Text     string         `json:"text"`
	Position geometry.Point `json:"position"`
}

// Metadata describes where a ScanResult came from.
type Metadata struct {
	Source      string          `json:"source"`
	Timestamp   time.Time       `json:"timestamp"`
	Version     string          `json:"version"`
	Bounds      geometry.Bounds `json:"bounds"`
	Format      Format          `json:"format"`
	Extractor   string          `json:"extractor,omitempty"`
	Fingerprint string          `json:"fingerprint"`
}

// ScanResult is the structured output of a scan. Rooms and paths are sorted
// top-to-bottom, left-to-right.
type ScanResult struct {
	Rooms    []Room   `json:"rooms"`
	Paths    []Path   `json:"paths"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
	Metadata Metadata `json:"metadata"`
}

// SegmentCount returns the total number of segments over all paths.
func (r *ScanResult) SegmentCount() int {
	n := 0
	for _, p := range r.Paths {
		n += len(p.Segments)
	}
	return n
}

// Plan is the structured (already decoded) form of a floor plan.
type Plan struct {
	Rooms     []PlanRoom       `json:"rooms,omitempty"`
	Corridors []PlanPath       `json:"corridors,omitempty"`
	Paths     []PlanPath       `json:"paths,omitempty"`
	Walkways  []PlanPath       `json:"walkways,omitempty"`
	Labels    []PlanLabel      `json:"labels,omitempty"`
	Bounds    *geometry.Bounds `json:"bounds,omitempty"`
}

// PlanRoom accepts either Bounds or the flat X/Y/Width/Height form.
type PlanRoom struct {
	ID         string           `json:"id,omitempty"`
	Bounds     *geometry.Bounds `json:"bounds,omitempty"`
	X          *float64         `json:"x,omitempty"`
	Y          *float64         `json:"y,omitempty"`
	Width      *float64         `json:"width,omitempty"`
	Height     *float64         `json:"height,omitempty"`
	Label      string           `json:"label,omitempty"`
	Name       string           `json:"name,omitempty"`
	Type       string           `json:"type,omitempty"`
	Confidence *float64         `json:"confidence,omitempty"`
}

// PlanPath accepts Segments, Points, or a single Start/End pair, in that order
// of preference.
type PlanPath struct {
	ID         string             `json:"id,omitempty"`
	Type       string             `json:"type,omitempty"`
	Segments   []geometry.Segment `json:"segments,omitempty"`
	Points     []geometry.Point   `json:"points,omitempty"`
	Start      *geometry.Point    `json:"start,omitempty"`
	End        *geometry.Point    `json:"end,omitempty"`
	Width      *float64           `json:"width,omitempty"`
	Confidence *float64           `json:"confidence,omitempty"`
}

// PlanLabel is a free text label in structured input.
type PlanLabel struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}
