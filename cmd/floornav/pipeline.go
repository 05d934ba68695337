package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"floorplan-navigator/internal/config"
	"floorplan-navigator/internal/navgraph"
	"floorplan-navigator/internal/navpoints"
	"floorplan-navigator/internal/pathfind"
	"floorplan-navigator/internal/scanner"
)

// readInput reads a floor plan from a file, or from stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read floor plan: %w", err)
	}
	return data, nil
}

func scanInput(c config.Config, data []byte, source string) (*scanner.ScanResult, error) {
	sc := c.Scan
	sc.Source = source
	if source != "" && source != "-" {
		sc.Filename = filepath.Base(source)
	}
	return scanner.Scan(data, sc)
}

func scanFile(c config.Config, path string) (*scanner.ScanResult, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return scanInput(c, data, path)
}

// buildFromFile scans a floor plan and builds its graph. Graph errors are
// logged, not returned; the graph is still usable for inspection.
func buildFromFile(ctx context.Context, c config.Config, path string) (*scanner.ScanResult, *navgraph.NavigationGraph, error) {
	scan, err := scanFile(c, path)
	if err != nil {
		return nil, nil, err
	}
	g := navgraph.Build(ctx, scan, c.Graph)
	for _, e := range g.Errors {
		slog.Warn("graph error", slog.String("error", e))
	}
	return scan, g, nil
}

// resolveEndpoint looks an identifier up among navigation points, preferring
// the first group, and falls back to treating it as a raw node id.
func resolveEndpoint(ident string, groups ...[]navpoints.NavigationPoint) pathfind.Endpoint {
	for _, points := range groups {
		if p, ok := navpoints.FindPoint(points, ident); ok {
			return p
		}
	}
	return pathfind.NodeRef(ident)
}

func routeBetween(ctx context.Context, c config.Config, g *navgraph.NavigationGraph, pts *navpoints.NavigationPoints, from, to string) *pathfind.PathResult {
	start := resolveEndpoint(from, pts.StartPoints.All, pts.EndPoints.All)
	end := resolveEndpoint(to, pts.EndPoints.All, pts.StartPoints.All)
	return pathfind.ComputePath(ctx, g, start, end, c.Route)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
