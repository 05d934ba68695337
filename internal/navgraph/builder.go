// Package navgraph builds a walkable navigation graph from scanned rooms and
// paths.
//
// Build runs a fixed pipeline: room nodes, corridor nodes with endpoint
// de-duplication, a grouping merge pass, intersection marking, corridor,
// doorway and intersection edges, room mappings, normalisation and
// validation. The result is deterministic for identical input.
package navgraph

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"floorplan-navigator/internal/geometry"
	"floorplan-navigator/internal/scanner"
)

// Build turns a scan result into a navigation graph. It never panics: any
// internal failure yields an empty graph with the cause in Errors.
func Build(ctx context.Context, scan *scanner.ScanResult, cfg Config) (g *NavigationGraph) {
	start := time.Now()
	ctx, span := startBuildSpan(ctx, scan)
	defer span.End()

	log := cfg.logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error("graph build panicked", slog.Any("panic", r))
			g = emptyGraph()
			g.Errors = append(g.Errors, fmt.Sprintf("graph build failed: %v", r))
			g.Metadata = buildMetadata(scan, cfg, g, start)
		}
		setBuildSpanResult(span, g)
		recordBuildMetrics(ctx, time.Since(start), len(g.Nodes), len(g.Edges), len(g.Errors) == 0)
	}()

	if scan == nil {
		g = emptyGraph()
		g.Errors = append(g.Errors, "graph build failed: nil scan result")
		g.Metadata = buildMetadata(nil, cfg, g, start)
		return g
	}

	b := &builder{cfg: cfg, log: log, edgeIndex: make(map[string]int)}
	g = b.run(scan)
	g.Metadata = buildMetadata(scan, cfg, g, start)

	log.Debug("graph built",
		slog.String("source", g.Metadata.Source),
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("edges", len(g.Edges)),
		slog.Int("rooms", len(g.RoomMappings)),
		slog.Int("warnings", len(g.Warnings)),
		slog.Int("errors", len(g.Errors)))
	return g
}

type builder struct {
	cfg       Config
	log       *slog.Logger
	nodes     []*buildNode
	edges     []Edge
	edgeIndex map[string]int
	warnings  []string
	errors    []string
}

func (b *builder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

func (b *builder) run(scan *scanner.ScanResult) *NavigationGraph {
	b.addRoomNodes(scan.Rooms)
	b.addCorridorNodes(scan.Paths)

	var merged int
	b.nodes, merged = mergeNearbyNodes(b.nodes, b.cfg.MergeThreshold)
	if merged > 0 {
		b.log.Debug("merged nearby nodes", slog.Int("merged", merged))
	}
	for _, n := range b.nodes {
		for _, id := range n.absorbed {
			b.warnf("room %s merged into room %s at node %s", id, n.roomID, n.id)
		}
	}
	b.markIntersections()

	si := newSpatialIndex()
	for i, n := range b.nodes {
		si.insert(i, n.pos)
	}
	b.addCorridorEdges(scan.Paths, si)
	b.addDoorwayEdges(si)
	b.addIntersectionEdges(si)
	if b.cfg.DetectCrossings {
		b.detectCrossings(scan.Paths)
	}

	g := b.assemble()
	g.Bounds = scan.Metadata.Bounds
	if g.Bounds == (geometry.Bounds{}) && len(g.Nodes) > 0 {
		var ext geometry.Extent
		for _, n := range g.Nodes {
			ext.AddPoint(n.Position)
		}
		g.Bounds = ext.Bounds()
	}

	errs, warns := Validate(g)
	g.Errors = append(b.errors, errs...)
	g.Warnings = append(b.warnings, warns...)
	if g.Errors == nil {
		g.Errors = []string{}
	}
	if g.Warnings == nil {
		g.Warnings = []string{}
	}
	return g
}

func nodeTypeForRoom(t scanner.RoomType) NodeType {
	switch t {
	case scanner.RoomTypeStair:
		return NodeStair
	case scanner.RoomTypeElevator:
		return NodeElevator
	case scanner.RoomTypeExit, "entrance":
		return NodeExit
	}
	return NodeRoom
}

func (b *builder) addRoomNodes(rooms []scanner.Room) {
	for i, r := range rooms {
		typ := nodeTypeForRoom(r.Type)
		center := r.Bounds.Center()
		b.nodes = append(b.nodes, &buildNode{
			id:       NodeID(typ, center, strconv.Itoa(i)),
			typ:      typ,
			pos:      center,
			members:  []geometry.Point{center},
			roomID:   r.ID,
			label:    r.Label,
			roomType: string(r.Type),
		})
	}
}

// addCorridorNodes places a node at every segment endpoint. An endpoint within
// the merge threshold to the first position of an existing corridor node
// folds into that node instead.
func (b *builder) addCorridorNodes(paths []scanner.Path) {
	anchors := newSpatialIndex()
	first := len(b.nodes)

	place := func(p geometry.Point, pathID, suffix string) {
		idx, ok := anchors.nearest(p, b.cfg.MergeThreshold, func(i int) bool {
			return b.nodes[i].members[0].Distance(p) <= b.cfg.MergeThreshold
		})
		if ok {
			n := b.nodes[idx]
			n.members = append(n.members, p)
			n.pos = geometry.Mean(n.members)
			n.addPath(pathID)
			return
		}
		b.nodes = append(b.nodes, &buildNode{
			id:      NodeID(NodeCorridor, p, SanitizeID(pathID)+"_"+suffix),
			typ:     NodeCorridor,
			pos:     p,
			members: []geometry.Point{p},
			pathIDs: []string{pathID},
		})
		anchors.insert(len(b.nodes)-1, p)
	}

	for _, path := range paths {
		for i, seg := range path.Segments {
			place(seg.Start, path.ID, "start_"+strconv.Itoa(i))
			place(seg.End, path.ID, "end_"+strconv.Itoa(i))
		}
	}
	b.log.Debug("placed corridor nodes", slog.Int("count", len(b.nodes)-first))
}

func (b *builder) markIntersections() {
	for _, n := range b.nodes {
		if len(n.pathIDs) > 1 {
			n.typ = NodeIntersection
		}
	}
}

func (b *builder) assemble() *NavigationGraph {
	g := emptyGraph()
	for _, n := range b.nodes {
		node := Node{
			ID:       n.id,
			Type:     n.typ,
			Position: n.pos.Rounded(),
			Metadata: NodeMetadata{
				RoomID:         n.roomID,
				Label:          n.label,
				RoomType:       n.roomType,
				IsIntersection: n.typ == NodeIntersection,
				MergedCount:    n.merged,
			},
		}
		if len(n.pathIDs) > 0 {
			node.Metadata.PathIDs = append([]string(nil), n.pathIDs...)
			sort.Strings(node.Metadata.PathIDs)
		}
		g.Nodes = append(g.Nodes, node)
		if n.roomID != "" {
			g.RoomMappings = append(g.RoomMappings, RoomMapping{
				RoomID:   n.roomID,
				NodeID:   n.id,
				Position: node.Position,
			})
		}
		for _, id := range n.absorbed {
			g.RoomMappings = append(g.RoomMappings, RoomMapping{
				RoomID:   id,
				NodeID:   n.id,
				Position: node.Position,
			})
		}
	}
	for _, e := range b.edges {
		e.Distance = geometry.Round(e.Distance)
		g.Edges = append(g.Edges, e)
	}
	Normalize(g)
	return g
}

// Normalize re-rounds positions and distances, sorts nodes, edges and room
// mappings canonically, and rebuilds every node's connections from the edge
// set.
func Normalize(g *NavigationGraph) {
	for i := range g.Nodes {
		g.Nodes[i].Position = g.Nodes[i].Position.Rounded()
	}
	for i := range g.Edges {
		g.Edges[i].Distance = geometry.Round(g.Edges[i].Distance)
	}
	for i := range g.RoomMappings {
		g.RoomMappings[i].Position = g.RoomMappings[i].Position.Rounded()
	}

	sort.SliceStable(g.Nodes, func(i, j int) bool {
		a, b := g.Nodes[i], g.Nodes[j]
		if a.Position != b.Position {
			return geometry.Less(a.Position, b.Position)
		}
		return a.ID < b.ID
	})
	sort.SliceStable(g.Edges, func(i, j int) bool {
		a, b := g.Edges[i], g.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.ID < b.ID
	})
	sort.SliceStable(g.RoomMappings, func(i, j int) bool {
		a, b := g.RoomMappings[i], g.RoomMappings[j]
		if a.RoomID != b.RoomID {
			return a.RoomID < b.RoomID
		}
		return a.NodeID < b.NodeID
	})

	adj := make(map[string]map[string]bool, len(g.Nodes))
	link := func(from, to string) {
		if adj[from] == nil {
			adj[from] = make(map[string]bool)
		}
		adj[from][to] = true
	}
	for _, e := range g.Edges {
		link(e.From, e.To)
		if e.Bidirectional {
			link(e.To, e.From)
		}
	}
	for i := range g.Nodes {
		conns := make([]string, 0, len(adj[g.Nodes[i].ID]))
		for id := range adj[g.Nodes[i].ID] {
			conns = append(conns, id)
		}
		sort.Strings(conns)
		g.Nodes[i].Connections = conns
	}
}

func buildMetadata(scan *scanner.ScanResult, cfg Config, g *NavigationGraph, start time.Time) Metadata {
	md := Metadata{
		Source:      cfg.Source,
		Timestamp:   cfg.now(),
		Version:     Version,
		NodeCount:   len(g.Nodes),
		EdgeCount:   len(g.Edges),
		RoomCount:   len(g.RoomMappings),
		BuildTimeMs: float64(time.Since(start).Microseconds()) / 1000,
	}
	if scan != nil {
		if md.Source == "" {
			md.Source = scan.Metadata.Source
		}
		md.Fingerprint = scan.Metadata.Fingerprint
	}
	if md.Source == "" {
		md.Source = "unknown"
	}
	return md
}
