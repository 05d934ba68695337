package navpoints

import "floorplan-navigator/internal/geometry"

// PointType is the category a navigation point was selected into.
type PointType string

const (
	PointEntrance  PointType = "entrance"
	PointStaircase PointType = "staircase"
	PointLift      PointType = "lift"
	PointCorridor  PointType = "corridor"
	PointRoom      PointType = "room"
	PointOffice    PointType = "office"
	PointFacility  PointType = "facility"
)

// PointMetadata carries what a routing UI needs to describe a point.
type PointMetadata struct {
	RoomID       string   `json:"roomId,omitempty"`
	RoomType     string   `json:"roomType,omitempty"`
	FacilityType string   `json:"facilityType,omitempty"`
	FloorLevel   *int     `json:"floorLevel,omitempty"`
	PathIDs      []string `json:"pathIds,omitempty"`
}

// NavigationPoint is a graph node offered as a route start or end.
type NavigationPoint struct {
	NodeID   string         `json:"nodeId"`
	Type     PointType      `json:"type"`
	Position geometry.Point `json:"position"`
	Label    string         `json:"label"`
	Metadata PointMetadata  `json:"metadata"`
}

// GraphNodeID makes a NavigationPoint usable as a pathfinding endpoint.
func (p NavigationPoint) GraphNodeID() string {
	return p.NodeID
}

// StartPoints groups route origins.
type StartPoints struct {
	Entrances  []NavigationPoint `json:"entrances"`
	Staircases []NavigationPoint `json:"staircases"`
	Lifts      []NavigationPoint `json:"lifts"`
	Corridors  []NavigationPoint `json:"corridors"`
	All        []NavigationPoint `json:"all"`
}

// EndPoints groups route destinations.
type EndPoints struct {
	Rooms      []NavigationPoint `json:"rooms"`
	Offices    []NavigationPoint `json:"offices"`
	Facilities []NavigationPoint `json:"facilities"`
	All        []NavigationPoint `json:"all"`
}

// Validation aggregates ValidatePointMapping over both groups.
type Validation struct {
	StartPointsValid bool     `json:"startPointsValid"`
	EndPointsValid   bool     `json:"endPointsValid"`
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings"`
}

// NavigationPoints is the selector output.
type NavigationPoints struct {
	StartPoints StartPoints `json:"startPoints"`
	EndPoints   EndPoints   `json:"endPoints"`
	Validation  Validation  `json:"validation"`
}

// MappingResult is the outcome of validating one list of points.
type MappingResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// RoomInfo is an external room classification used to find offices and
// facilities.
type RoomInfo struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
}
