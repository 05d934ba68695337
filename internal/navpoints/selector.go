// Package navpoints classifies navigation graph nodes into route start and end
// points. Selection never modifies the graph.
package navpoints

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"floorplan-navigator/internal/navgraph"
	"floorplan-navigator/internal/scanner"
)

// errNilGraph is reported instead of selecting from a missing graph.
const errNilGraph = "graph is nil"

// Select classifies every node of g. rooms is an optional room classification;
// when nil, the room metadata carried by the graph nodes is used.
func Select(g *navgraph.NavigationGraph, rooms []RoomInfo) *NavigationPoints {
	if g == nil {
		return &NavigationPoints{
			StartPoints: SelectStartPoints(nil),
			EndPoints:   SelectEndPoints(nil, rooms),
			Validation: Validation{
				Errors:   []string{errNilGraph},
				Warnings: []string{},
			},
		}
	}
	if rooms == nil {
		rooms = roomsFromGraph(g)
	}
	start := SelectStartPoints(g)
	end := SelectEndPoints(g, rooms)

	startCheck := ValidatePointMapping(start.All, g)
	endCheck := ValidatePointMapping(end.All, g)

	return &NavigationPoints{
		StartPoints: start,
		EndPoints:   end,
		Validation: Validation{
			StartPointsValid: startCheck.Valid,
			EndPointsValid:   endCheck.Valid,
			Errors:           append(startCheck.Errors, endCheck.Errors...),
			Warnings:         append(startCheck.Warnings, endCheck.Warnings...),
		},
	}
}

// SelectStartPoints picks entrances, staircases, lifts and corridor nodes.
func SelectStartPoints(g *navgraph.NavigationGraph) StartPoints {
	sp := StartPoints{
		Entrances:  []NavigationPoint{},
		Staircases: []NavigationPoint{},
		Lifts:      []NavigationPoint{},
		Corridors:  []NavigationPoint{},
	}
	if g == nil {
		sp.All = concat()
		return sp
	}
	exitNodes := make(map[string]bool)
	for _, n := range g.Nodes {
		if isExitType(n.Type) {
			exitNodes[n.ID] = true
		}
	}

	for _, n := range g.Nodes {
		switch {
		case isExitType(n.Type) || isExitRoom(g, n.Metadata.RoomID, exitNodes):
			sp.Entrances = append(sp.Entrances, startPoint(n, PointEntrance, "Entrance"))
		case n.Type == navgraph.NodeStair:
			sp.Staircases = append(sp.Staircases, startPoint(n, PointStaircase, "Staircase"))
		case n.Type == navgraph.NodeElevator:
			sp.Lifts = append(sp.Lifts, startPoint(n, PointLift, "Elevator"))
		case n.Type == navgraph.NodeCorridor:
			p := newPoint(n, PointCorridor, "Corridor "+n.ID)
			p.Metadata.PathIDs = n.Metadata.PathIDs
			sp.Corridors = append(sp.Corridors, p)
		}
	}

	sp.All = concat(sp.Entrances, sp.Staircases, sp.Lifts, sp.Corridors)
	return sp
}

// SelectEndPoints picks room nodes plus the offices and facilities named by
// the room classification.
func SelectEndPoints(g *navgraph.NavigationGraph, rooms []RoomInfo) EndPoints {
	ep := EndPoints{
		Rooms:      []NavigationPoint{},
		Offices:    []NavigationPoint{},
		Facilities: []NavigationPoint{},
	}
	if g == nil {
		ep.All = concat()
		return ep
	}

	mappedRoom := make(map[string]string, len(g.RoomMappings))
	for _, m := range g.RoomMappings {
		if _, ok := mappedRoom[m.NodeID]; !ok {
			mappedRoom[m.NodeID] = m.RoomID
		}
	}

	offices := make(map[string]RoomInfo)
	facilities := make(map[string]RoomInfo)
	for _, r := range rooms {
		if r.ID == "" {
			continue
		}
		if isOffice(r) {
			offices[r.ID] = r
		}
		if isFacility(r) {
			facilities[r.ID] = r
		}
	}

	for _, n := range g.Nodes {
		roomID := n.Metadata.RoomID
		if roomID == "" {
			roomID = mappedRoom[n.ID]
		}

		if n.Type == navgraph.NodeRoom {
			p := newPoint(n, PointRoom, labelOr(n.Metadata.Label, "Room "+n.ID))
			p.Metadata.RoomID = roomID
			p.Metadata.RoomType = "room"
			ep.Rooms = append(ep.Rooms, p)
		}
		if roomID == "" {
			continue
		}
		if r, ok := offices[roomID]; ok {
			p := newPoint(n, PointOffice, labelOr(r.Label, labelOr(n.Metadata.Label, "Office "+n.ID)))
			p.Metadata.RoomID = roomID
			p.Metadata.RoomType = "office"
			ep.Offices = append(ep.Offices, p)
		}
		if r, ok := facilities[roomID]; ok {
			p := newPoint(n, PointFacility, labelOr(r.Label, labelOr(n.Metadata.Label, "Facility "+n.ID)))
			p.Metadata.RoomID = roomID
			p.Metadata.RoomType = "facility"
			p.Metadata.FacilityType = FacilityType(r)
			ep.Facilities = append(ep.Facilities, p)
		}
	}

	ep.All = concat(ep.Rooms, ep.Offices, ep.Facilities)
	return ep
}

// RoomsFromScan turns scanned rooms into a room classification.
func RoomsFromScan(scan *scanner.ScanResult) []RoomInfo {
	if scan == nil {
		return nil
	}
	out := make([]RoomInfo, 0, len(scan.Rooms))
	for _, r := range scan.Rooms {
		out = append(out, RoomInfo{ID: r.ID, Label: r.Label, Type: string(r.Type)})
	}
	return out
}

func roomsFromGraph(g *navgraph.NavigationGraph) []RoomInfo {
	var out []RoomInfo
	for _, n := range g.Nodes {
		if n.Metadata.RoomID == "" {
			continue
		}
		out = append(out, RoomInfo{ID: n.Metadata.RoomID, Label: n.Metadata.Label, Type: n.Metadata.RoomType})
	}
	return out
}

func isExitType(t navgraph.NodeType) bool {
	return t == navgraph.NodeExit || t == "entrance"
}

// isExitRoom reports whether the node mapped to roomID is itself an exit.
// A node's own room id maps back to that node, so this only adds entrances
// when a room id is shared by several nodes and its mapping points at an exit.
func isExitRoom(g *navgraph.NavigationGraph, roomID string, exitNodes map[string]bool) bool {
	if roomID == "" {
		return false
	}
	m, ok := g.MappingFor(roomID)
	return ok && exitNodes[m.NodeID]
}

func startPoint(n navgraph.Node, t PointType, prefix string) NavigationPoint {
	p := newPoint(n, t, labelOr(n.Metadata.Label, prefix+" "+n.ID))
	p.Metadata.RoomID = n.Metadata.RoomID
	p.Metadata.RoomType = n.Metadata.RoomType
	p.Metadata.FloorLevel = FloorLevel(n.ID)
	if p.Metadata.FloorLevel == nil {
		p.Metadata.FloorLevel = FloorLevel(n.Metadata.RoomID)
	}
	return p
}

func newPoint(n navgraph.Node, t PointType, label string) NavigationPoint {
	return NavigationPoint{
		NodeID:   n.ID,
		Type:     t,
		Position: n.Position,
		Label:    label,
	}
}

func labelOr(label, fallback string) string {
	if strings.TrimSpace(label) != "" {
		return label
	}
	return fallback
}

func concat(groups ...[]NavigationPoint) []NavigationPoint {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]NavigationPoint, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var floorLevelRe = regexp.MustCompile(`(?i)(?:^|[^a-z])(?:floor|level|f)[_-]?(\d+)`)

// FloorLevel extracts a floor number from identifiers such as "floor_2",
// "level-3" or "F1". It returns nil when there is none.
func FloorLevel(id string) *int {
	m := floorLevelRe.FindStringSubmatch(id)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// ValidatePointMapping checks that every point resolves to a node of g.
// Points on isolated nodes are valid but produce a warning.
func ValidatePointMapping(points []NavigationPoint, g *navgraph.NavigationGraph) MappingResult {
	res := MappingResult{Errors: []string{}, Warnings: []string{}}
	if g == nil {
		res.Errors = append(res.Errors, errNilGraph)
		return res
	}
	nodes := g.NodeMap()

	for i, p := range points {
		name := labelOr(p.Label, p.NodeID)
		if p.NodeID == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("point %d missing nodeId", i))
			continue
		}
		n, ok := nodes[p.NodeID]
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("point %d (%s) references invalid node: %s", i, name, p.NodeID))
			continue
		}
		if len(n.Connections) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("point %d (%s) maps to isolated node with no connections", i, name))
		}
	}
	res.Valid = len(res.Errors) == 0
	return res
}

// FindPoint resolves identifier against node ids first, then labels, then
// room ids.
func FindPoint(points []NavigationPoint, identifier string) (NavigationPoint, bool) {
	if identifier == "" {
		return NavigationPoint{}, false
	}
	matchers := []func(NavigationPoint) bool{
		func(p NavigationPoint) bool { return p.NodeID == identifier },
		func(p NavigationPoint) bool { return p.Label == identifier },
		func(p NavigationPoint) bool { return p.Metadata.RoomID == identifier },
	}
	for _, match := range matchers {
		for _, p := range points {
			if match(p) {
				return p, true
			}
		}
	}
	return NavigationPoint{}, false
}
