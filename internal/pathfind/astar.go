package pathfind

import (
	"container/heap"
	"context"
	"math"

	"floorplan-navigator/internal/geometry"
	"floorplan-navigator/internal/navgraph"
)

// searchNode represents a node in the A* open set
type searchNode struct {
	nodeIdx int     // Index of the node in the graph
	g       float64 // Cost from start to this node
	h       float64 // Heuristic cost from this node to end
	f       float64 // Total cost (g + h)
	seq     int     // Insertion order, breaks ties between equal f
	parent  *searchNode
	index   int // Index in the heap
}

// priorityQueue implements heap.Interface for A* algorithm
type priorityQueue []*searchNode

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := len(*pq)
	node := x.(*searchNode)
	node.index = n
	*pq = append(*pq, node)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]
	return node
}

// searchGraph is an index over a NavigationGraph built once per search.
type searchGraph struct {
	nodes    []navgraph.Node
	byID     map[string]int
	distance map[[2]string]float64
}

func newSearchGraph(g *navgraph.NavigationGraph) *searchGraph {
	sg := &searchGraph{
		nodes:    g.Nodes,
		byID:     make(map[string]int, len(g.Nodes)),
		distance: make(map[[2]string]float64, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		if _, dup := sg.byID[n.ID]; !dup {
			sg.byID[n.ID] = i
		}
	}
	for _, e := range g.Edges {
		k := edgeKey(e.From, e.To)
		if d, ok := sg.distance[k]; !ok || e.Distance < d {
			sg.distance[k] = e.Distance
		}
	}
	return sg
}

func edgeKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// cost returns the recorded edge distance between two nodes, falling back to
// the straight-line distance when no edge record exists.
func (sg *searchGraph) cost(a, b int) float64 {
	if d, ok := sg.distance[edgeKey(sg.nodes[a].ID, sg.nodes[b].ID)]; ok {
		return d
	}
	return sg.nodes[a].Position.Distance(sg.nodes[b].Position)
}

// heuristic is the straight-line distance truncated to the precision edge
// distances are rounded to, so it never exceeds a rounded edge cost.
func heuristic(a, b geometry.Point) float64 {
	return math.Floor(a.Distance(b)*100) / 100
}

type searchOutcome struct {
	path     []string
	explored int
	err      error
}

// astar runs a non-reopening A* from start to end. Neighbours come from each
// node's connections. Edge costs must be non-negative.
func astar(ctx context.Context, sg *searchGraph, startIdx, endIdx, maxExpansions int) searchOutcome {
	endPos := sg.nodes[endIdx].Position
	h := func(i int) float64 { return heuristic(sg.nodes[i].Position, endPos) }

	openSet := &priorityQueue{}
	heap.Init(openSet)

	seq := 0
	startNode := &searchNode{nodeIdx: startIdx, h: h(startIdx), f: h(startIdx)}
	heap.Push(openSet, startNode)

	closedSet := make(map[int]bool)
	openSetMap := map[int]*searchNode{startIdx: startNode}

	nodesExplored := 0

	for openSet.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return searchOutcome{explored: nodesExplored, err: err}
		}
		if maxExpansions > 0 && nodesExplored >= maxExpansions {
			return searchOutcome{explored: nodesExplored, err: ErrSearchLimit}
		}

		current := heap.Pop(openSet).(*searchNode)
		delete(openSetMap, current.nodeIdx)
		nodesExplored++

		if current.nodeIdx == endIdx {
			var path []string
			for n := current; n != nil; n = n.parent {
				path = append(path, sg.nodes[n.nodeIdx].ID)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return searchOutcome{path: path, explored: nodesExplored}
		}

		closedSet[current.nodeIdx] = true

		for _, connID := range sg.nodes[current.nodeIdx].Connections {
			neighborIdx, ok := sg.byID[connID]
			if !ok || closedSet[neighborIdx] {
				continue
			}

			tentativeG := current.g + sg.cost(current.nodeIdx, neighborIdx)

			neighbor, exists := openSetMap[neighborIdx]
			if !exists {
				seq++
				neighbor = &searchNode{
					nodeIdx: neighborIdx,
					g:       tentativeG,
					h:       h(neighborIdx),
					seq:     seq,
					parent:  current,
				}
				neighbor.f = neighbor.g + neighbor.h
				heap.Push(openSet, neighbor)
				openSetMap[neighborIdx] = neighbor
			} else if tentativeG < neighbor.g {
				// Found a better path to this neighbor
				neighbor.g = tentativeG
				neighbor.f = neighbor.g + neighbor.h
				neighbor.parent = current
				heap.Fix(openSet, neighbor.index)
			}
		}
	}

	return searchOutcome{explored: nodesExplored, err: ErrNoPath}
}
