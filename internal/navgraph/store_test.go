package navgraph_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan-navigator/internal/navgraph"
	"floorplan-navigator/internal/scanner"
)

func storedGraph(t *testing.T) *navgraph.NavigationGraph {
	t.Helper()
	scan := &scanner.ScanResult{
		Rooms: []scanner.Room{room("R1", scanner.RoomTypeRoom, 0, 0, 40, 40)},
		Paths: []scanner.Path{corridor("C1", seg(0, 60, 200, 60))},
	}
	g := navgraph.Build(context.Background(), scan, testConfig())
	require.Empty(t, g.Errors)
	return g
}

func TestSaveAndLoadGraph(t *testing.T) {
	g := storedGraph(t)
	file := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, navgraph.SaveGraph(g, file))

	loaded, err := navgraph.LoadGraph(file)
	require.NoError(t, err)
	assert.Equal(t, nodeIDs(g), nodeIDs(loaded))
	assert.Equal(t, edgeIDs(g), edgeIDs(loaded))
	assert.Equal(t, g.Metadata, loaded.Metadata)
	assert.Equal(t, g.Lines(), loaded.Lines())
	for i := range g.Nodes {
		assert.Equal(t, g.Nodes[i].Connections, loaded.Nodes[i].Connections)
	}
}

func TestLoadGraphErrors(t *testing.T) {
	_, err := navgraph.LoadGraph(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = navgraph.DecodeGraph([]byte(`{"nodes": [`))
	assert.Error(t, err)

	_, err = navgraph.DecodeGraph([]byte(`{"nodes":[{"id":"A","position":{"x":0,"y":0}}],
		"edges":[{"id":"EDGE_A_B","from":"A","to":"B","distance":3,"bidirectional":true}]}`))
	assert.ErrorIs(t, err, navgraph.ErrInvalidGraph)
	assert.ErrorContains(t, err, "edge EDGE_A_B references missing node B")
}

func TestLines(t *testing.T) {
	g := storedGraph(t)
	lines := g.Lines()
	require.Len(t, lines, len(g.Edges))

	corridorLine := false
	for _, l := range lines {
		if l.Start == pt(0, 60) && l.End == pt(200, 60) || l.Start == pt(200, 60) && l.End == pt(0, 60) {
			corridorLine = true
		}
	}
	assert.True(t, corridorLine)
}
