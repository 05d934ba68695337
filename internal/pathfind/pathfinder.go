// Package pathfind computes shortest walkable routes over a navigation graph
// with A*, and re-validates every route it returns.
package pathfind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"floorplan-navigator/internal/geometry"
	"floorplan-navigator/internal/navgraph"
)

// ComputePath finds the shortest route from start to end. It never returns
// nil and never panics on bad input; failures are reported through
// Success, Error and Cause.
func ComputePath(ctx context.Context, g *navgraph.NavigationGraph, start, end Endpoint, cfg Config) *PathResult {
	began := time.Now()
	ctx, span := startSearchSpan(ctx)
	defer span.End()

	res := computePath(ctx, g, start, end, cfg)
	res.Metadata.Algorithm = Algorithm
	res.Metadata.ComputationTime = geometry.Round(float64(time.Since(began).Microseconds()) / 1000)
	if res.Path == nil {
		res.Path = []string{}
	}

	setSearchSpanResult(span, res)
	recordSearchMetrics(ctx, time.Since(began), res)

	log := cfg.logger()
	if res.Success {
		log.Debug("path found",
			slog.String("start", res.Metadata.StartNode),
			slog.String("end", res.Metadata.EndNode),
			slog.Int("steps", res.StepCount),
			slog.Float64("length", res.Length),
			slog.Int("explored", res.Metadata.NodesExplored))
	} else {
		log.Debug("path not found",
			slog.String("start", res.Metadata.StartNode),
			slog.String("end", res.Metadata.EndNode),
			slog.String("error", res.Error))
	}
	return res
}

func endpointID(e Endpoint) (id string, ok bool) {
	if e == nil {
		return "", false
	}
	// A typed nil pointer inside the interface still counts as missing.
	defer func() {
		if recover() != nil {
			id, ok = "", false
		}
	}()
	id = strings.TrimSpace(e.GraphNodeID())
	return id, id != ""
}

func failed(res *PathResult, err error) *PathResult {
	res.Success = false
	res.Path = []string{}
	res.Length = 0
	res.StepCount = 0
	res.Error = err.Error()
	res.Cause = err
	return res
}

func computePath(ctx context.Context, g *navgraph.NavigationGraph, start, end Endpoint, cfg Config) *PathResult {
	res := &PathResult{}

	startID, okStart := endpointID(start)
	endID, okEnd := endpointID(end)
	res.Metadata.StartNode = startID
	res.Metadata.EndNode = endID
	if !okStart || !okEnd {
		return failed(res, ErrMissingEndpoint)
	}
	if g == nil {
		return failed(res, fmt.Errorf("%w: %s", ErrNodeNotFound, startID))
	}

	sg := newSearchGraph(g)
	startIdx, ok := sg.byID[startID]
	if !ok {
		return failed(res, fmt.Errorf("%w: %s", ErrNodeNotFound, startID))
	}
	endIdx, ok := sg.byID[endID]
	if !ok {
		return failed(res, fmt.Errorf("%w: %s", ErrNodeNotFound, endID))
	}

	if startIdx == endIdx {
		res.Success = true
		res.Path = []string{startID}
		res.StepCount = 1
		res.Metadata.NodesExplored = 1
		return res
	}

	out := astar(ctx, sg, startIdx, endIdx, cfg.MaxExpansions)
	res.Metadata.NodesExplored = out.explored
	if out.err != nil {
		if errors.Is(out.err, context.Canceled) || errors.Is(out.err, context.DeadlineExceeded) {
			return failed(res, fmt.Errorf("pathfind: search aborted: %w", out.err))
		}
		return failed(res, out.err)
	}

	if v := ValidatePath(g, out.path, startID, endID); !v.Valid {
		return failed(res, fmt.Errorf("%w: %s", ErrInvalidPath, strings.Join(v.Errors, ", ")))
	}

	res.Success = true
	res.Path = out.path
	res.StepCount = len(out.path)
	res.Length = PathLength(g, out.path)
	return res
}
