// Package summary reports what a scan, graph build, point selection and route
// computation produced, without needing any UI.
package summary

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"floorplan-navigator/internal/navgraph"
	"floorplan-navigator/internal/navpoints"
	"floorplan-navigator/internal/pathfind"
	"floorplan-navigator/internal/scanner"
)

// maxListed caps how many points the text report lists per group.
const maxListed = 10

type ScanStats struct {
	RoomsDetected int `json:"roomsDetected"`
	PathSegments  int `json:"pathSegments"`
	PathsDetected int `json:"pathsDetected"`
}

type GraphStats struct {
	TotalNodes   int `json:"totalNodes"`
	TotalEdges   int `json:"totalEdges"`
	RoomMappings int `json:"roomMappings"`
}

type StartStats struct {
	Entrances  int                         `json:"entrances"`
	Staircases int                         `json:"staircases"`
	Lifts      int                         `json:"lifts"`
	Corridors  int                         `json:"corridors"`
	Total      int                         `json:"total"`
	List       []navpoints.NavigationPoint `json:"list"`
}

type EndStats struct {
	Rooms      int                         `json:"rooms"`
	Offices    int                         `json:"offices"`
	Facilities int                         `json:"facilities"`
	Total      int                         `json:"total"`
	List       []navpoints.NavigationPoint `json:"list"`
}

// PathStats is present only when a route was computed.
type PathStats struct {
	Found     bool     `json:"found"`
	NodeCount int      `json:"nodeCount"`
	Length    float64  `json:"length"`
	StepCount int      `json:"stepCount"`
	Path      []string `json:"path"`
	StartNode string   `json:"startNode,omitempty"`
	EndNode   string   `json:"endNode,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Summary is the structured report. Every input may be nil.
type Summary struct {
	Scan        ScanStats  `json:"scan"`
	Graph       GraphStats `json:"graph"`
	StartPoints StartStats `json:"startPoints"`
	EndPoints   EndStats   `json:"endPoints"`
	Path        *PathStats `json:"path"`
	Metadata    Metadata   `json:"metadata"`

	includeDetails     bool
	includePathDetails bool
}

// Options controls how much detail a Summary keeps.
type Options struct {
	IncludeDetails     bool
	IncludePathDetails bool
	Now                func() time.Time
}

// DefaultOptions includes point lists and path nodes.
func DefaultOptions() Options {
	return Options{IncludeDetails: true, IncludePathDetails: true}
}

// Generate collects counts from whichever pipeline stages ran.
func Generate(scan *scanner.ScanResult, g *navgraph.NavigationGraph, pts *navpoints.NavigationPoints, res *pathfind.PathResult, opts Options) *Summary {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	s := &Summary{
		includeDetails:     opts.IncludeDetails,
		includePathDetails: opts.IncludePathDetails,
		StartPoints:        StartStats{List: []navpoints.NavigationPoint{}},
		EndPoints:          EndStats{List: []navpoints.NavigationPoint{}},
		Metadata:           Metadata{Timestamp: now().UTC(), Source: "unknown"},
	}

	if scan != nil {
		s.Scan = ScanStats{
			RoomsDetected: len(scan.Rooms),
			PathSegments:  scan.SegmentCount(),
			PathsDetected: len(scan.Paths),
		}
		if scan.Metadata.Source != "" {
			s.Metadata.Source = scan.Metadata.Source
		}
	}
	if g != nil {
		s.Graph = GraphStats{
			TotalNodes:   len(g.Nodes),
			TotalEdges:   len(g.Edges),
			RoomMappings: len(g.RoomMappings),
		}
		if s.Metadata.Source == "unknown" && g.Metadata.Source != "" {
			s.Metadata.Source = g.Metadata.Source
		}
	}
	if pts != nil {
		sp, ep := pts.StartPoints, pts.EndPoints
		s.StartPoints.Entrances = len(sp.Entrances)
		s.StartPoints.Staircases = len(sp.Staircases)
		s.StartPoints.Lifts = len(sp.Lifts)
		s.StartPoints.Corridors = len(sp.Corridors)
		s.StartPoints.Total = len(sp.All)
		s.EndPoints.Rooms = len(ep.Rooms)
		s.EndPoints.Offices = len(ep.Offices)
		s.EndPoints.Facilities = len(ep.Facilities)
		s.EndPoints.Total = len(ep.All)
		if opts.IncludeDetails {
			s.StartPoints.List = append(s.StartPoints.List, sp.All...)
			s.EndPoints.List = append(s.EndPoints.List, ep.All...)
		}
	}
	if res != nil {
		path := res.Path
		if path == nil {
			path = []string{}
		}
		s.Path = &PathStats{
			Found:     res.Success,
			NodeCount: len(path),
			Length:    res.Length,
			StepCount: res.StepCount,
			Path:      path,
			StartNode: res.Metadata.StartNode,
			EndNode:   res.Metadata.EndNode,
			Error:     res.Error,
		}
	}
	return s
}

// Compact renders a one-line summary.
func (s *Summary) Compact() string {
	parts := []string{
		fmt.Sprintf("%d rooms", s.Scan.RoomsDetected),
		fmt.Sprintf("%d path segments", s.Scan.PathSegments),
		fmt.Sprintf("%d start points", s.StartPoints.Total),
		fmt.Sprintf("%d end points", s.EndPoints.Total),
	}
	if s.Path != nil {
		if s.Path.Found {
			parts = append(parts, fmt.Sprintf("Path: %d nodes, %.1f units", s.Path.NodeCount, s.Path.Length))
		} else {
			parts = append(parts, "No path found")
		}
	}
	return strings.Join(parts, " | ")
}

// JSON renders the structured summary, indented.
func (s *Summary) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	return out, nil
}

// Text renders the multi-section report.
func (s *Summary) Text() string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("%s", rule)
	line("NAVIGATION DATA SUMMARY")
	line("%s", rule)
	line("")

	line("SCAN RESULTS:")
	line("  Rooms Detected: %d", s.Scan.RoomsDetected)
	line("  Path Segments: %d", s.Scan.PathSegments)
	line("  Paths Detected: %d", s.Scan.PathsDetected)
	line("")

	line("NAVIGATION GRAPH:")
	line("  Total Nodes: %d", s.Graph.TotalNodes)
	line("  Total Edges: %d", s.Graph.TotalEdges)
	line("  Room Mappings: %d", s.Graph.RoomMappings)
	line("")

	line("AVAILABLE START POINTS:")
	line("  Entrances: %d", s.StartPoints.Entrances)
	line("  Staircases: %d", s.StartPoints.Staircases)
	line("  Lifts: %d", s.StartPoints.Lifts)
	line("  Corridors: %d", s.StartPoints.Corridors)
	line("  Total: %d", s.StartPoints.Total)
	if s.includeDetails && len(s.StartPoints.List) > 0 {
		line("")
		line("  Start Point Details:")
		writePoints(line, s.StartPoints.List)
	}
	line("")

	line("AVAILABLE END POINTS:")
	line("  Rooms: %d", s.EndPoints.Rooms)
	line("  Offices: %d", s.EndPoints.Offices)
	line("  Facilities: %d", s.EndPoints.Facilities)
	line("  Total: %d", s.EndPoints.Total)
	if s.includeDetails && len(s.EndPoints.List) > 0 {
		line("")
		line("  End Point Details:")
		writePoints(line, s.EndPoints.List)
	}
	line("")

	line("COMPUTED NAVIGATION PATH:")
	switch {
	case s.Path == nil:
		line("  Status: Not Computed")
	case s.Path.Found:
		line("  Status: Path Found")
		line("  Start Node: %s", s.Path.StartNode)
		line("  End Node: %s", s.Path.EndNode)
		line("  Path Length: %.2f", s.Path.Length)
		line("  Step Count: %d", s.Path.StepCount)
		line("  Node Count: %d", s.Path.NodeCount)
		if s.includePathDetails && len(s.Path.Path) > 0 {
			line("")
			line("  Path Nodes:")
			last := len(s.Path.Path) - 1
			for i, id := range s.Path.Path {
				marker := fmt.Sprint(i)
				switch i {
				case 0:
					marker = "START"
				case last:
					marker = "END"
				}
				line("    %5s: %s", marker, id)
			}
		}
	default:
		msg := s.Path.Error
		if msg == "" {
			msg = "Unknown error"
		}
		line("  Status: No Path Found")
		line("  Error: %s", msg)
		if s.Path.StartNode != "" && s.Path.EndNode != "" {
			line("  Start Node: %s", s.Path.StartNode)
			line("  End Node: %s", s.Path.EndNode)
		}
	}
	line("")

	line("METADATA:")
	line("  Source: %s", s.Metadata.Source)
	line("  Timestamp: %s", s.Metadata.Timestamp.Format(time.RFC3339))
	line("")
	line("%s", rule)
	return b.String()
}

func writePoints(line func(string, ...any), points []navpoints.NavigationPoint) {
	for i, p := range points {
		if i == maxListed {
			line("    ... and %d more", len(points)-maxListed)
			break
		}
		name := p.Label
		if name == "" {
			name = p.NodeID
		}
		line("    %d. %s (%s)", i+1, name, p.Type)
	}
}
