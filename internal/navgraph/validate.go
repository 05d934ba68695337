package navgraph

import "fmt"

// Validate checks referential integrity. Duplicate ids, edges with a missing
// endpoint and mappings to missing nodes are errors. Nodes without any
// connection are only warnings; they stay in the graph.
func Validate(g *NavigationGraph) (errs, warnings []string) {
	nodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			errs = append(errs, "node with empty id")
			continue
		}
		if nodes[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node id: %s", n.ID))
		}
		nodes[n.ID] = true
	}

	edges := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if edges[e.ID] {
			errs = append(errs, fmt.Sprintf("duplicate edge id: %s", e.ID))
		}
		edges[e.ID] = true
		if !nodes[e.From] {
			errs = append(errs, fmt.Sprintf("edge %s references missing node %s", e.ID, e.From))
		}
		if !nodes[e.To] {
			errs = append(errs, fmt.Sprintf("edge %s references missing node %s", e.ID, e.To))
		}
		if e.Distance < 0 {
			errs = append(errs, fmt.Sprintf("edge %s has negative distance", e.ID))
		}
	}

	for _, m := range g.RoomMappings {
		if !nodes[m.NodeID] {
			errs = append(errs, fmt.Sprintf("room mapping %s references missing node %s", m.RoomID, m.NodeID))
		}
	}

	for _, n := range g.Nodes {
		if len(n.Connections) == 0 {
			warnings = append(warnings, fmt.Sprintf("node %s has no connections", n.ID))
		}
	}
	return errs, warnings
}
