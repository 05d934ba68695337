package pathfind_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan-navigator/internal/geometry"
	"floorplan-navigator/internal/navgraph"
	"floorplan-navigator/internal/navpoints"
	"floorplan-navigator/internal/pathfind"
	"floorplan-navigator/internal/scanner"
)

type ref = pathfind.NodeRef

// graphOf builds a graph from positions and undirected edges "A-B". Edge
// distances are the Euclidean distance unless overridden.
func graphOf(pos map[string]geometry.Point, edges []string, override map[string]float64) *navgraph.NavigationGraph {
	g := &navgraph.NavigationGraph{}
	for id, p := range pos {
		g.Nodes = append(g.Nodes, navgraph.Node{ID: id, Type: navgraph.NodeCorridor, Position: p})
	}
	for _, e := range edges {
		var a, b string
		_, _ = fmt.Sscanf(e, "%1s-%1s", &a, &b)
		d, ok := override[e]
		if !ok {
			d = geometry.Round(pos[a].Distance(pos[b]))
		}
		g.Edges = append(g.Edges, navgraph.Edge{ID: navgraph.EdgeID(a, b), From: a, To: b, Distance: d, Bidirectional: true})
	}
	navgraph.Normalize(g)
	return g
}

func lineGraph() *navgraph.NavigationGraph {
	return graphOf(map[string]geometry.Point{
		"A": {X: 0, Y: 0},
		"B": {X: 50, Y: 0},
		"C": {X: 100, Y: 50},
	}, []string{"A-B", "B-C"}, nil)
}

func TestThreeNodeLine(t *testing.T) {
	g := lineGraph()
	res := pathfind.ComputePath(context.Background(), g, ref("A"), ref("C"), pathfind.DefaultConfig())

	require.True(t, res.Success, res.Error)
	assert.Equal(t, []string{"A", "B", "C"}, res.Path)
	assert.InDelta(t, 120.7, res.Length, 0.05)
	assert.Equal(t, 3, res.StepCount)
	assert.Equal(t, "A", res.Metadata.StartNode)
	assert.Equal(t, "C", res.Metadata.EndNode)
	assert.Equal(t, "A*", res.Metadata.Algorithm)
	assert.GreaterOrEqual(t, res.Metadata.ComputationTime, 0.0)
	assert.Empty(t, res.Error)
	assert.NoError(t, res.Cause)
}

func TestSquarePrefersDiagonal(t *testing.T) {
	g := graphOf(map[string]geometry.Point{
		"A": {X: 0, Y: 0},
		"B": {X: 100, Y: 0},
		"C": {X: 100, Y: 100},
		"D": {X: 0, Y: 100},
	}, []string{"A-B", "B-C", "C-D", "D-A", "A-C"}, nil)

	res := pathfind.ComputePath(context.Background(), g, ref("A"), ref("C"), pathfind.DefaultConfig())
	require.True(t, res.Success)
	assert.Equal(t, []string{"A", "C"}, res.Path)
	assert.Equal(t, 141.42, res.Length)
}

func TestSquareAvoidsExpensiveDiagonal(t *testing.T) {
	g := graphOf(map[string]geometry.Point{
		"A": {X: 0, Y: 0},
		"B": {X: 100, Y: 0},
		"C": {X: 100, Y: 100},
		"D": {X: 0, Y: 100},
	}, []string{"A-B", "B-C", "C-D", "D-A", "A-C"}, map[string]float64{"A-C": 500})

	res := pathfind.ComputePath(context.Background(), g, ref("A"), ref("C"), pathfind.DefaultConfig())
	require.True(t, res.Success)
	assert.Len(t, res.Path, 3)
	assert.Equal(t, 200.0, res.Length)
}

func TestNoPathToIsolatedNode(t *testing.T) {
	g := lineGraph()
	g.Nodes = append(g.Nodes, navgraph.Node{ID: "Z", Type: navgraph.NodeRoom, Position: geometry.Point{X: 500, Y: 500}})
	navgraph.Normalize(g)

	res := pathfind.ComputePath(context.Background(), g, ref("A"), ref("Z"), pathfind.DefaultConfig())
	assert.False(t, res.Success)
	assert.NotNil(t, res.Path)
	assert.Empty(t, res.Path)
	assert.NotEmpty(t, res.Error)
	assert.ErrorIs(t, res.Cause, pathfind.ErrNoPath)
	assert.Equal(t, "A", res.Metadata.StartNode)
	assert.Equal(t, "Z", res.Metadata.EndNode)

	check := navpoints.ValidatePointMapping([]navpoints.NavigationPoint{{NodeID: "Z", Label: "Store"}}, g)
	assert.True(t, check.Valid, "isolated nodes are still graph members")
	assert.Equal(t, []string{"point 0 (Store) maps to isolated node with no connections"}, check.Warnings)
}

func TestSameNode(t *testing.T) {
	res := pathfind.ComputePath(context.Background(), lineGraph(), ref("B"), ref("B"), pathfind.DefaultConfig())
	require.True(t, res.Success)
	assert.Equal(t, []string{"B"}, res.Path)
	assert.Equal(t, 0.0, res.Length)
	assert.Equal(t, 1, res.StepCount)
}

func TestBadEndpoints(t *testing.T) {
	g := lineGraph()
	cfg := pathfind.DefaultConfig()

	res := pathfind.ComputePath(context.Background(), g, nil, ref("A"), cfg)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Cause, pathfind.ErrMissingEndpoint)

	res = pathfind.ComputePath(context.Background(), g, ref("A"), ref(" "), cfg)
	assert.ErrorIs(t, res.Cause, pathfind.ErrMissingEndpoint)

	var missing *navpoints.NavigationPoint
	res = pathfind.ComputePath(context.Background(), g, missing, ref("A"), cfg)
	assert.ErrorIs(t, res.Cause, pathfind.ErrMissingEndpoint)

	res = pathfind.ComputePath(context.Background(), g, ref("A"), ref("NOPE"), cfg)
	assert.ErrorIs(t, res.Cause, pathfind.ErrNodeNotFound)
	assert.Equal(t, "pathfind: node not found: NOPE", res.Error)

	res = pathfind.ComputePath(context.Background(), nil, ref("A"), ref("B"), cfg)
	assert.ErrorIs(t, res.Cause, pathfind.ErrNodeNotFound)
}

func TestEuclideanFallbackForConnectionsWithoutEdges(t *testing.T) {
	g := &navgraph.NavigationGraph{Nodes: []navgraph.Node{
		{ID: "A", Position: geometry.Point{X: 0, Y: 0}, Connections: []string{"B"}},
		{ID: "B", Position: geometry.Point{X: 30, Y: 40}, Connections: []string{"A"}},
	}}
	res := pathfind.ComputePath(context.Background(), g, ref("A"), ref("B"), pathfind.DefaultConfig())
	require.True(t, res.Success)
	assert.Equal(t, 50.0, res.Length)
}

func TestExpansionLimit(t *testing.T) {
	cfg := pathfind.DefaultConfig()
	cfg.MaxExpansions = 1
	res := pathfind.ComputePath(context.Background(), lineGraph(), ref("A"), ref("C"), cfg)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Cause, pathfind.ErrSearchLimit)
	assert.Equal(t, 1, res.Metadata.NodesExplored)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := pathfind.ComputePath(ctx, lineGraph(), ref("A"), ref("C"), pathfind.DefaultConfig())
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Cause, context.Canceled)
}

func TestValidatePath(t *testing.T) {
	g := lineGraph()

	assert.True(t, pathfind.ValidatePath(g, []string{"A", "B", "C"}, "A", "C").Valid)

	v := pathfind.ValidatePath(g, []string{"A", "C"}, "A", "C")
	assert.False(t, v.Valid)
	assert.Equal(t, []string{"A is not connected to C"}, v.Errors)

	v = pathfind.ValidatePath(g, []string{"B", "X"}, "A", "C")
	assert.ElementsMatch(t, []string{
		"path starts at B, expected A",
		"path ends at X, expected C",
		"path visits unknown node X",
		"B is not connected to X",
	}, v.Errors)

	assert.False(t, pathfind.ValidatePath(g, nil, "A", "C").Valid)
}

func TestPathLength(t *testing.T) {
	g := lineGraph()
	assert.Equal(t, 0.0, pathfind.PathLength(g, []string{"A"}))
	assert.Equal(t, 120.71, pathfind.PathLength(g, []string{"A", "B", "C"}))
	assert.Equal(t, 50.0, pathfind.PathLength(g, []string{"B", "A"}))
}

func TestNilGraphChecks(t *testing.T) {
	v := pathfind.ValidatePath(nil, []string{"A", "B"}, "A", "B")
	assert.False(t, v.Valid)
	assert.Equal(t, []string{"graph is nil"}, v.Errors)
	assert.Equal(t, 0.0, pathfind.PathLength(nil, []string{"A", "B"}))
}

func TestComputeRoutesKeepsOrder(t *testing.T) {
	g := lineGraph()
	reqs := []pathfind.RouteRequest{
		{Start: ref("A"), End: ref("C")},
		{Start: ref("C"), End: ref("A")},
		{Start: ref("A"), End: ref("NOPE")},
		{Start: ref("B"), End: ref("B")},
	}
	results, err := pathfind.ComputeRoutes(context.Background(), g, reqs, pathfind.Config{Workers: 2})
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, []string{"A", "B", "C"}, results[0].Path)
	assert.Equal(t, []string{"C", "B", "A"}, results[1].Path)
	assert.False(t, results[2].Success)
	assert.True(t, results[3].Success)
}

func TestRouteBetweenSelectedPoints(t *testing.T) {
	svg := `<svg viewBox="0 0 400 300">
  <rect class="room exit" id="lobby" x="0" y="0" width="60" height="40"/>
  <rect class="room" id="lab" data-label="Lab" x="300" y="180" width="60" height="40"/>
  <polyline class="corridor" points="30,60 330,60 330,160"/>
</svg>`
	scan, err := scanner.Scan([]byte(svg), scanner.DefaultConfig())
	require.NoError(t, err)
	g := navgraph.Build(context.Background(), scan, navgraph.DefaultConfig())
	require.Empty(t, g.Errors)

	pts := navpoints.Select(g, navpoints.RoomsFromScan(scan))
	require.True(t, pts.Validation.StartPointsValid)
	require.True(t, pts.Validation.EndPointsValid)

	from, ok := navpoints.FindPoint(pts.StartPoints.All, "lobby")
	require.True(t, ok)
	to, ok := navpoints.FindPoint(pts.EndPoints.All, "Lab")
	require.True(t, ok)

	res := pathfind.ComputePath(context.Background(), g, from, to, pathfind.DefaultConfig())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, from.NodeID, res.Path[0])
	assert.Equal(t, to.NodeID, res.Path[len(res.Path)-1])

	nodes := g.NodeMap()
	for i := 0; i+1 < len(res.Path); i++ {
		assert.Contains(t, nodes[res.Path[i]].Connections, res.Path[i+1])
	}
}
