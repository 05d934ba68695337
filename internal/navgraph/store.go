package navgraph

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"floorplan-navigator/internal/geometry"
)

// ErrInvalidGraph is returned when a stored graph fails validation.
var ErrInvalidGraph = errors.New("navgraph: invalid graph")

// SaveGraph serializes the graph to a JSON file.
func SaveGraph(g *NavigationGraph, filename string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// LoadGraph reads a graph written by SaveGraph and checks its structure.
func LoadGraph(filename string) (*NavigationGraph, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return DecodeGraph(data)
}

// DecodeGraph parses a JSON graph, restores canonical order and rejects
// graphs with structural errors.
func DecodeGraph(data []byte) (*NavigationGraph, error) {
	var g NavigationGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph: %w", err)
	}
	Normalize(&g)
	if errs, _ := Validate(&g); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGraph, strings.Join(errs, "; "))
	}
	if g.Warnings == nil {
		g.Warnings = []string{}
	}
	if g.Errors == nil {
		g.Errors = []string{}
	}
	return &g, nil
}

// Lines returns each edge as a segment between node positions, for drawing
// the graph.
func (g *NavigationGraph) Lines() []geometry.Segment {
	nodes := g.NodeMap()
	lines := make([]geometry.Segment, 0, len(g.Edges))
	seen := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		key := pairKey(e.From, e.To)
		if seen[key] {
			continue
		}
		from, okFrom := nodes[e.From]
		to, okTo := nodes[e.To]
		if !okFrom || !okTo {
			continue
		}
		seen[key] = true
		lines = append(lines, geometry.Segment{Start: from.Position, End: to.Position})
	}
	return lines
}
