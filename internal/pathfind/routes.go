package pathfind

import (
	"context"

	"golang.org/x/sync/errgroup"

	"floorplan-navigator/internal/navgraph"
)

// RouteRequest is one start/end pair for ComputeRoutes.
type RouteRequest struct {
	Start Endpoint
	End   Endpoint
}

// ComputeRoutes evaluates independent requests concurrently. Results are in
// request order. The returned error is only set when ctx ends before every
// request was started.
func ComputeRoutes(ctx context.Context, g *navgraph.NavigationGraph, requests []RouteRequest, cfg Config) ([]*PathResult, error) {
	results := make([]*PathResult, len(requests))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers())

	for i, req := range requests {
		i, req := i, req
		if err := egCtx.Err(); err != nil {
			break
		}
		eg.Go(func() error {
			results[i] = ComputePath(egCtx, g, req.Start, req.End, cfg)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
