package navgraph

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"floorplan-navigator/internal/geometry"
)

// pointEntry wraps a node position for R-tree storage.
type pointEntry struct {
	idx  int
	pos  geometry.Point
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (p *pointEntry) Bounds() rtreego.Rect {
	return p.bbox
}

// spatialIndex answers radius and nearest queries over node positions.
// Results are ordered by distance then insertion index so that lookups are
// deterministic.
type spatialIndex struct {
	tree *rtreego.Rtree
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{tree: rtreego.NewTree(2, 25, 50)} // 2D, min 25, max 50 entries per node
}

func (si *spatialIndex) insert(idx int, pos geometry.Point) {
	si.tree.Insert(&pointEntry{
		idx:  idx,
		pos:  pos,
		bbox: rtreego.Point{pos.X, pos.Y}.ToRect(0.001),
	})
}

type hit struct {
	idx  int
	dist float64
}

// within returns every entry at most radius from p, nearest first.
func (si *spatialIndex) within(p geometry.Point, radius float64) []hit {
	if radius <= 0 {
		return nil
	}
	query, err := rtreego.NewRect(
		rtreego.Point{p.X - radius, p.Y - radius},
		[]float64{2 * radius, 2 * radius},
	)
	if err != nil {
		return nil
	}

	results := si.tree.SearchIntersect(query)
	hits := make([]hit, 0, len(results))
	for _, item := range results {
		entry := item.(*pointEntry)
		if d := p.Distance(entry.pos); d <= radius {
			hits = append(hits, hit{idx: entry.idx, dist: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].idx < hits[j].idx
	})
	return hits
}

// nearest returns the closest accepted entry within radius.
func (si *spatialIndex) nearest(p geometry.Point, radius float64, accept func(idx int) bool) (int, bool) {
	for _, h := range si.within(p, radius) {
		if accept == nil || accept(h.idx) {
			return h.idx, true
		}
	}
	return -1, false
}
