package pathfind

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("floorplan-navigator.pathfind")
	meter  = otel.Meter("floorplan-navigator.pathfind")
)

var (
	searchLatency  metric.Float64Histogram
	searchTotal    metric.Int64Counter
	nodesExplored  metric.Int64Histogram
	metricsOnce    sync.Once
	metricsInitErr error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		searchLatency, err = meter.Float64Histogram(
			"pathfind_search_duration_seconds",
			metric.WithDescription("Duration of A* searches"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsInitErr = err
			return
		}

		searchTotal, err = meter.Int64Counter(
			"pathfind_search_total",
			metric.WithDescription("Total number of route computations"),
		)
		if err != nil {
			metricsInitErr = err
			return
		}

		nodesExplored, err = meter.Int64Histogram(
			"pathfind_nodes_explored",
			metric.WithDescription("Nodes expanded per search"),
		)
		if err != nil {
			metricsInitErr = err
			return
		}
	})
	return metricsInitErr
}

func recordSearchMetrics(ctx context.Context, duration time.Duration, res *PathResult) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", res.Success))
	searchLatency.Record(ctx, duration.Seconds(), attrs)
	searchTotal.Add(ctx, 1, attrs)
	nodesExplored.Record(ctx, int64(res.Metadata.NodesExplored), attrs)
}

func startSearchSpan(ctx context.Context) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pathfind.ComputePath")
}

func setSearchSpanResult(span trace.Span, res *PathResult) {
	span.SetAttributes(
		attribute.String("path.start_node", res.Metadata.StartNode),
		attribute.String("path.end_node", res.Metadata.EndNode),
		attribute.Bool("path.success", res.Success),
		attribute.Int("path.step_count", res.StepCount),
		attribute.Float64("path.length", res.Length),
		attribute.Int("path.nodes_explored", res.Metadata.NodesExplored),
	)
}
