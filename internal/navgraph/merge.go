package navgraph

import (
	"floorplan-navigator/internal/geometry"
)

// buildNode is the mutable working form of a node during a build.
type buildNode struct {
	id       string
	typ      NodeType
	pos      geometry.Point
	members  []geometry.Point
	pathIDs  []string
	roomID   string
	label    string
	roomType string
	merged   int
	// absorbed holds the ids of rooms folded into this node besides roomID.
	absorbed []string
}

func (n *buildNode) addPath(id string) {
	for _, p := range n.pathIDs {
		if p == id {
			return
		}
	}
	n.pathIDs = append(n.pathIDs, id)
}

func (n *buildNode) isRoom() bool {
	return n.roomID != ""
}

func (n *buildNode) onPath() bool {
	return len(n.pathIDs) > 0
}

func sharesPath(a, b *buildNode) bool {
	for _, x := range a.pathIDs {
		for _, y := range b.pathIDs {
			if x == y {
				return true
			}
		}
	}
	return false
}

// mergeNearbyNodes collapses nodes at most threshold apart. Clusters are
// assigned first, in arena order: each unassigned seed claims the unassigned
// nodes within threshold of its own position. Claiming is not transitive, so
// a chain of nodes spaced at the threshold does not fold into one.
// A fresh slice is returned; the seed of each cluster survives with its id.
func mergeNearbyNodes(nodes []*buildNode, threshold float64) ([]*buildNode, int) {
	if len(nodes) <= 1 {
		return nodes, 0
	}

	si := newSpatialIndex()
	for i, n := range nodes {
		si.insert(i, n.pos)
	}

	cluster := make([]int, len(nodes))
	for i := range cluster {
		cluster[i] = -1
	}
	var groups [][]int
	for i := range nodes {
		if cluster[i] >= 0 {
			continue
		}
		g := len(groups)
		cluster[i] = g
		group := []int{i}
		for _, h := range si.within(nodes[i].pos, threshold) {
			if h.idx == i || cluster[h.idx] >= 0 || h.dist > threshold {
				continue
			}
			cluster[h.idx] = g
			group = append(group, h.idx)
		}
		groups = append(groups, group)
	}

	out := make([]*buildNode, 0, len(groups))
	mergedAway := 0
	for _, group := range groups {
		if len(group) == 1 {
			out = append(out, nodes[group[0]])
			continue
		}
		out = append(out, collapse(nodes, group))
		mergedAway += len(group) - 1
	}
	return out, mergedAway
}

func collapse(nodes []*buildNode, group []int) *buildNode {
	// Arena order keeps the seed first.
	seed := nodes[group[0]]
	survivor := &buildNode{
		id:       seed.id,
		typ:      seed.typ,
		roomID:   seed.roomID,
		label:    seed.label,
		roomType: seed.roomType,
		merged:   seed.merged,
		absorbed: append([]string(nil), seed.absorbed...),
	}
	positions := make([]geometry.Point, 0, len(group))
	for _, idx := range group {
		n := nodes[idx]
		positions = append(positions, n.pos)
		survivor.members = append(survivor.members, n.members...)
		for _, p := range n.pathIDs {
			survivor.addPath(p)
		}
		if idx == group[0] {
			continue
		}
		survivor.merged += n.merged + 1
		survivor.absorbed = append(survivor.absorbed, n.absorbed...)
		switch {
		case !n.isRoom():
		case !survivor.isRoom():
			survivor.roomID = n.roomID
			survivor.label = n.label
			survivor.roomType = n.roomType
			survivor.typ = n.typ
		default:
			survivor.absorbed = append(survivor.absorbed, n.roomID)
		}
	}
	survivor.pos = geometry.Mean(positions)
	if len(survivor.pathIDs) > 1 {
		survivor.typ = NodeIntersection
	}
	return survivor
}
