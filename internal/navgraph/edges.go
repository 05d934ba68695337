package navgraph

import (
	"floorplan-navigator/internal/geometry"
	"floorplan-navigator/internal/scanner"
)

// addEdge records an undirected edge between two working nodes unless it is
// too short or already present. It reports whether a new edge was added.
func (b *builder) addEdge(from, to int, md EdgeMetadata) bool {
	if from == to {
		return false
	}
	a, c := b.nodes[from], b.nodes[to]
	dist := geometry.Round(a.pos.Distance(c.pos))
	if dist < b.cfg.MinEdgeDistance {
		return false
	}
	id := EdgeID(a.id, c.id)
	if _, ok := b.edgeIndex[id]; ok {
		return false
	}

	e := Edge{
		ID:            id,
		From:          a.id,
		To:            c.id,
		Distance:      dist,
		Bidirectional: true,
		Metadata:      md,
	}
	if b.cfg.CalculateDirections {
		e.Direction = DirectionBetween(a.pos, c.pos)
	}
	b.edgeIndex[id] = len(b.edges)
	b.edges = append(b.edges, e)
	return true
}

// addCorridorEdges links the nodes nearest to each segment's endpoints.
func (b *builder) addCorridorEdges(paths []scanner.Path, si *spatialIndex) {
	radius := 2 * b.cfg.MergeThreshold
	for _, path := range paths {
		for i, seg := range path.Segments {
			from, okFrom := si.nearest(seg.Start, radius, nil)
			to, okTo := si.nearest(seg.End, radius, nil)
			if !okFrom || !okTo {
				b.warnf("path %s segment %d: no node near endpoint", path.ID, i)
				continue
			}
			b.addEdge(from, to, EdgeMetadata{
				Kind:     EdgeCorridor,
				PathID:   path.ID,
				PathType: string(path.Type),
			})
		}
	}
}

// addDoorwayEdges connects every room node that is not itself on a path to
// the nearest node that is.
func (b *builder) addDoorwayEdges(si *spatialIndex) {
	for i, n := range b.nodes {
		if !n.isRoom() || n.onPath() {
			continue
		}
		target, ok := si.nearest(n.pos, b.cfg.RoomCorridorDistance, func(j int) bool {
			return j != i && b.nodes[j].onPath()
		})
		if !ok {
			continue
		}
		b.addEdge(i, target, EdgeMetadata{Kind: EdgeDoorway})
	}
}

// addIntersectionEdges makes junctions locally walkable in every direction.
func (b *builder) addIntersectionEdges(si *spatialIndex) {
	for i, n := range b.nodes {
		if n.typ != NodeIntersection {
			continue
		}
		for _, h := range si.within(n.pos, b.cfg.RoomCorridorDistance) {
			if h.idx == i {
				continue
			}
			if b.cfg.IntersectionScope != ScopeRadius && !sharesPath(n, b.nodes[h.idx]) {
				continue
			}
			b.addEdge(i, h.idx, EdgeMetadata{Kind: EdgeIntersection})
		}
	}
}

// detectCrossings warns about segments of different paths that cross away
// from any shared node; such plans usually miss a junction.
func (b *builder) detectCrossings(paths []scanner.Path) {
	type owned struct {
		path  string
		seg   geometry.Segment
		bound geometry.Bounds
	}
	var all []owned
	for _, p := range paths {
		for _, s := range p.Segments {
			bb, _ := geometry.BoundingBox([]geometry.Point{s.Start, s.End})
			all = append(all, owned{path: p.ID, seg: s, bound: bb})
		}
	}

	reported := make(map[string]bool)
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, c := all[i], all[j]
			if a.path == c.path || reported[pairKey(a.path, c.path)] {
				continue
			}
			if !a.bound.Bound().Intersects(c.bound.Bound()) {
				continue
			}
			if geometry.SegmentsCross(a.seg, c.seg) {
				reported[pairKey(a.path, c.path)] = true
				b.warnf("paths %s and %s cross without a shared node", a.path, c.path)
			}
		}
	}
}
