package navgraph

import (
	"time"

	"floorplan-navigator/internal/geometry"
)

// Version is reported in graph metadata.
const Version = "1.0.0"

// NodeType is the closed set of node variants.
type NodeType string

const (
	NodeRoom         NodeType = "room"
	NodeCorridor     NodeType = "corridor"
	NodeIntersection NodeType = "intersection"
	NodeStair        NodeType = "stair"
	NodeElevator     NodeType = "elevator"
	NodeExit         NodeType = "exit"
)

// Direction is a cardinal direction in screen coordinates (y grows downward).
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// EdgeKind says which construction step produced an edge.
type EdgeKind string

const (
	EdgeCorridor     EdgeKind = "corridor"
	EdgeDoorway      EdgeKind = "doorway"
	EdgeIntersection EdgeKind = "intersection"
)

// NodeMetadata is the typed payload of a node.
type NodeMetadata struct {
	RoomID         string   `json:"roomId,omitempty"`
	Label          string   `json:"label,omitempty"`
	RoomType       string   `json:"roomType,omitempty"`
	PathIDs        []string `json:"pathIds,omitempty"`
	IsIntersection bool     `json:"isIntersection,omitempty"`
	MergedCount    int      `json:"mergedCount,omitempty"`
}

// Node is a graph vertex. Connections is derived from the edge set.
type Node struct {
	ID          string         `json:"id"`
	Type        NodeType       `json:"type"`
	Position    geometry.Point `json:"position"`
	Connections []string       `json:"connections"`
	Metadata    NodeMetadata   `json:"metadata"`
}

// EdgeMetadata is the typed payload of an edge. PathID and PathType are only
// set on corridor edges.
type EdgeMetadata struct {
	Kind     EdgeKind `json:"kind"`
	PathID   string   `json:"pathId,omitempty"`
	PathType string   `json:"pathType,omitempty"`
}

// Edge connects two nodes. ID is derived from the sorted endpoint pair.
type Edge struct {
	ID            string       `json:"id"`
	From          string       `json:"from"`
	To            string       `json:"to"`
	Distance      float64      `json:"distance"`
	Bidirectional bool         `json:"bidirectional"`
	Direction     Direction    `json:"direction,omitempty"`
	Metadata      EdgeMetadata `json:"metadata"`
}

// RoomMapping points a room identifier at the node representing it.
type RoomMapping struct {
	RoomID   string         `json:"roomId"`
	NodeID   string         `json:"nodeId"`
	Position geometry.Point `json:"position"`
}

// Metadata describes a build.
type Metadata struct {
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	NodeCount   int       `json:"nodeCount"`
	EdgeCount   int       `json:"edgeCount"`
	RoomCount   int       `json:"roomCount"`
	BuildTimeMs float64   `json:"buildTimeMs"`
}

// NavigationGraph is the walkable model of a floor plan. Nodes are sorted by
// y then x, edges by from then to.
type NavigationGraph struct {
	Nodes        []Node          `json:"nodes"`
	Edges        []Edge          `json:"edges"`
	RoomMappings []RoomMapping   `json:"roomMappings"`
	Bounds       geometry.Bounds `json:"bounds"`
	Warnings     []string        `json:"warnings"`
	Errors       []string        `json:"errors"`
	Metadata     Metadata        `json:"metadata"`
}

// NodeMap indexes nodes by id. Later duplicates win.
func (g *NavigationGraph) NodeMap() map[string]*Node {
	m := make(map[string]*Node, len(g.Nodes))
	for i := range g.Nodes {
		m[g.Nodes[i].ID] = &g.Nodes[i]
	}
	return m
}

// Node returns the node with the given id.
func (g *NavigationGraph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// MappingFor returns the mapping for a room id.
func (g *NavigationGraph) MappingFor(roomID string) (RoomMapping, bool) {
	for _, m := range g.RoomMappings {
		if m.RoomID == roomID {
			return m, true
		}
	}
	return RoomMapping{}, false
}

func emptyGraph() *NavigationGraph {
	return &NavigationGraph{
		Nodes:        []Node{},
		Edges:        []Edge{},
		RoomMappings: []RoomMapping{},
		Warnings:     []string{},
		Errors:       []string{},
	}
}
