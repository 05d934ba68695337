package summary_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan-navigator/internal/navgraph"
	"floorplan-navigator/internal/navpoints"
	"floorplan-navigator/internal/pathfind"
	"floorplan-navigator/internal/scanner"
	"floorplan-navigator/internal/summary"
)

const planSVG = `<svg viewBox="0 0 400 300">
  <rect class="room exit" id="lobby" x="0" y="0" width="60" height="40"/>
  <rect class="room" id="lab" data-label="Lab" x="300" y="180" width="60" height="40"/>
  <polyline class="corridor" points="30,60 330,60 330,160"/>
</svg>`

var fixed = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func pipeline(t *testing.T) (*scanner.ScanResult, *navgraph.NavigationGraph, *navpoints.NavigationPoints, *pathfind.PathResult) {
	t.Helper()
	cfg := scanner.DefaultConfig()
	cfg.Source = "plan.svg"
	scan, err := scanner.Scan([]byte(planSVG), cfg)
	require.NoError(t, err)
	g := navgraph.Build(context.Background(), scan, navgraph.DefaultConfig())
	pts := navpoints.Select(g, navpoints.RoomsFromScan(scan))
	from, ok := navpoints.FindPoint(pts.StartPoints.All, "lobby")
	require.True(t, ok)
	to, ok := navpoints.FindPoint(pts.EndPoints.All, "Lab")
	require.True(t, ok)
	res := pathfind.ComputePath(context.Background(), g, from, to, pathfind.DefaultConfig())
	require.True(t, res.Success, res.Error)
	return scan, g, pts, res
}

func TestGenerateCounts(t *testing.T) {
	scan, g, pts, res := pipeline(t)
	opts := summary.DefaultOptions()
	opts.Now = func() time.Time { return fixed }

	s := summary.Generate(scan, g, pts, res, opts)
	assert.Equal(t, 2, s.Scan.RoomsDetected)
	assert.Equal(t, 1, s.Scan.PathsDetected)
	assert.Equal(t, 2, s.Scan.PathSegments)
	assert.Equal(t, len(g.Nodes), s.Graph.TotalNodes)
	assert.Equal(t, len(g.Edges), s.Graph.TotalEdges)
	assert.Equal(t, 2, s.Graph.RoomMappings)
	assert.Equal(t, 1, s.StartPoints.Entrances)
	assert.Equal(t, len(pts.StartPoints.All), s.StartPoints.Total)
	assert.Len(t, s.StartPoints.List, s.StartPoints.Total)
	require.NotNil(t, s.Path)
	assert.True(t, s.Path.Found)
	assert.Equal(t, len(res.Path), s.Path.NodeCount)
	assert.Equal(t, "plan.svg", s.Metadata.Source)
	assert.Equal(t, fixed, s.Metadata.Timestamp)
}

func TestTextReport(t *testing.T) {
	scan, g, pts, res := pipeline(t)
	opts := summary.DefaultOptions()
	opts.Now = func() time.Time { return fixed }

	text := summary.Generate(scan, g, pts, res, opts).Text()
	assert.True(t, strings.HasPrefix(text, strings.Repeat("=", 60)+"\nNAVIGATION DATA SUMMARY\n"))
	assert.Contains(t, text, "  Rooms Detected: 2\n")
	assert.Contains(t, text, "  Status: Path Found\n")
	assert.Contains(t, text, fmt.Sprintf("  Path Length: %.2f\n", res.Length))
	assert.Contains(t, text, "START: "+res.Path[0])
	assert.Contains(t, text, "  END: "+res.Path[len(res.Path)-1])
	assert.Contains(t, text, "  Source: plan.svg\n")
	assert.Contains(t, text, "  Timestamp: 2024-03-01T12:00:00Z\n")
	assert.Contains(t, text, "1. Lab (room)")
}

func TestTextWithoutRoute(t *testing.T) {
	text := summary.Generate(nil, nil, nil, nil, summary.Options{}).Text()
	assert.Contains(t, text, "  Status: Not Computed\n")
	assert.Contains(t, text, "  Source: unknown\n")
	assert.NotContains(t, text, "Details:")
}

func TestTextFailedRoute(t *testing.T) {
	res := &pathfind.PathResult{
		Path:     []string{},
		Error:    pathfind.ErrNoPath.Error(),
		Metadata: pathfind.Metadata{StartNode: "A", EndNode: "Z"},
	}
	s := summary.Generate(nil, nil, nil, res, summary.DefaultOptions())
	text := s.Text()
	assert.Contains(t, text, "  Status: No Path Found\n")
	assert.Contains(t, text, "  Error: "+pathfind.ErrNoPath.Error()+"\n")
	assert.Contains(t, text, "  Start Node: A\n")
	assert.Equal(t, "0 rooms | 0 path segments | 0 start points | 0 end points | No path found", s.Compact())
}

func TestLongListsAreTruncated(t *testing.T) {
	pts := &navpoints.NavigationPoints{}
	for i := 0; i < 12; i++ {
		p := navpoints.NavigationPoint{NodeID: fmt.Sprintf("C%d", i), Type: navpoints.PointCorridor}
		pts.StartPoints.Corridors = append(pts.StartPoints.Corridors, p)
		pts.StartPoints.All = append(pts.StartPoints.All, p)
	}
	text := summary.Generate(nil, nil, pts, nil, summary.DefaultOptions()).Text()
	assert.Contains(t, text, "    10. C9 (corridor)\n")
	assert.NotContains(t, text, "C10 (corridor)")
	assert.Contains(t, text, "    ... and 2 more\n")
}

func TestCompact(t *testing.T) {
	scan, g, pts, res := pipeline(t)
	s := summary.Generate(scan, g, pts, res, summary.DefaultOptions())
	want := fmt.Sprintf("2 rooms | 2 path segments | %d start points | %d end points | Path: %d nodes, %.1f units",
		len(pts.StartPoints.All), len(pts.EndPoints.All), len(res.Path), res.Length)
	assert.Equal(t, want, s.Compact())
}

func TestJSON(t *testing.T) {
	s := summary.Generate(nil, nil, nil, nil, summary.Options{Now: func() time.Time { return fixed }})
	out, err := s.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Nil(t, decoded["path"])
	assert.Equal(t, "unknown", decoded["metadata"].(map[string]any)["source"])
	assert.Equal(t, []any{}, decoded["startPoints"].(map[string]any)["list"])
}
