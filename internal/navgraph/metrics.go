package navgraph

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"floorplan-navigator/internal/scanner"
)

// Package-level tracer and meter for graph builds.
var (
	tracer = otel.Tracer("floorplan-navigator.navgraph")
	meter  = otel.Meter("floorplan-navigator.navgraph")
)

var (
	buildLatency metric.Float64Histogram
	buildTotal   metric.Int64Counter
	nodesCreated metric.Int64Histogram
	edgesCreated metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"navgraph_build_duration_seconds",
			metric.WithDescription("Duration of navigation graph builds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"navgraph_build_total",
			metric.WithDescription("Total number of navigation graph builds"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesCreated, err = meter.Int64Histogram(
			"navgraph_nodes_created",
			metric.WithDescription("Number of nodes per build"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesCreated, err = meter.Int64Histogram(
			"navgraph_edges_created",
			metric.WithDescription("Number of edges per build"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordBuildMetrics(ctx context.Context, duration time.Duration, nodeCount, edgeCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))

	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)

	if success {
		nodesCreated.Record(ctx, int64(nodeCount))
		edgesCreated.Record(ctx, int64(edgeCount))
	}
}

func startBuildSpan(ctx context.Context, scan *scanner.ScanResult) (context.Context, trace.Span) {
	rooms, paths := 0, 0
	if scan != nil {
		rooms, paths = len(scan.Rooms), len(scan.Paths)
	}
	return tracer.Start(ctx, "navgraph.Build",
		trace.WithAttributes(
			attribute.Int("scan.room_count", rooms),
			attribute.Int("scan.path_count", paths),
		),
	)
}

func setBuildSpanResult(span trace.Span, g *NavigationGraph) {
	if g == nil {
		return
	}
	span.SetAttributes(
		attribute.Int("graph.node_count", len(g.Nodes)),
		attribute.Int("graph.edge_count", len(g.Edges)),
		attribute.Int("graph.error_count", len(g.Errors)),
		attribute.Int("graph.warning_count", len(g.Warnings)),
	)
}
