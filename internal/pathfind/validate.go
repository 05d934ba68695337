package pathfind

import (
	"fmt"

	"floorplan-navigator/internal/geometry"
	"floorplan-navigator/internal/navgraph"
)

// Validation is the result of ValidatePath.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidatePath checks that path starts at startID, ends at endID, visits only
// existing nodes, and moves only along connections.
func ValidatePath(g *navgraph.NavigationGraph, path []string, startID, endID string) Validation {
	v := Validation{Errors: []string{}}
	if g == nil {
		v.Errors = append(v.Errors, "graph is nil")
		return v
	}
	if len(path) == 0 {
		v.Errors = append(v.Errors, "path is empty")
		return v
	}
	if path[0] != startID {
		v.Errors = append(v.Errors, fmt.Sprintf("path starts at %s, expected %s", path[0], startID))
	}
	if last := path[len(path)-1]; last != endID {
		v.Errors = append(v.Errors, fmt.Sprintf("path ends at %s, expected %s", last, endID))
	}

	nodes := g.NodeMap()
	for _, id := range path {
		if _, ok := nodes[id]; !ok {
			v.Errors = append(v.Errors, fmt.Sprintf("path visits unknown node %s", id))
		}
	}
	for i := 0; i+1 < len(path); i++ {
		n, ok := nodes[path[i]]
		if !ok {
			continue
		}
		if !contains(n.Connections, path[i+1]) {
			v.Errors = append(v.Errors, fmt.Sprintf("%s is not connected to %s", path[i], path[i+1]))
		}
	}
	v.Valid = len(v.Errors) == 0
	return v
}

// PathLength sums the edge distances along path, using the straight-line
// distance for hops without an edge record. The total is rounded.
func PathLength(g *navgraph.NavigationGraph, path []string) float64 {
	if g == nil || len(path) < 2 {
		return 0
	}
	sg := newSearchGraph(g)
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		a, okA := sg.byID[path[i]]
		b, okB := sg.byID[path[i+1]]
		if !okA || !okB {
			continue
		}
		total += sg.cost(a, b)
	}
	return geometry.Round(total)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
