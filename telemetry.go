package hpastar

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter.
var (
	tracer = otel.Tracer("hpastar")
	meter  = otel.Meter("hpastar")
)

var (
	searchExpansions metric.Int64Histogram
	searchTotal      metric.Int64Counter
	bakeLatency      metric.Float64Histogram
	bakeNodes        metric.Int64Histogram
	routeTotal       metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments once. A failure disables recording.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		searchExpansions, err = meter.Int64Histogram(
			"hpastar_search_expansions",
			metric.WithDescription("Node expansions per search"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		searchTotal, err = meter.Int64Counter(
			"hpastar_search_total",
			metric.WithDescription("Searches by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		bakeLatency, err = meter.Float64Histogram(
			"hpastar_bake_duration_seconds",
			metric.WithDescription("Duration of bake and publish"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		bakeNodes, err = meter.Int64Histogram(
			"hpastar_bake_nodes",
			metric.WithDescription("Nodes in a published snapshot"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		routeTotal, err = meter.Int64Counter(
			"hpastar_route_total",
			metric.WithDescription("Hierarchical routes by outcome"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, ErrPartialRoute):
		return "partial_route"
	case errors.Is(err, ErrSearchBudgetExceeded):
		return "budget_exceeded"
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	default:
		return "error"
	}
}

func recordSearch(ctx context.Context, expansions int, err error) {
	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome(err)))
	searchExpansions.Record(ctx, int64(expansions), attrs)
	searchTotal.Add(ctx, 1, attrs)
}

func recordBake(ctx context.Context, elapsed time.Duration, nodes int, err error) {
	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	bakeLatency.Record(ctx, elapsed.Seconds(), attrs)
	if err == nil {
		bakeNodes.Record(ctx, int64(nodes))
	}
}

func recordRoute(ctx context.Context, err error) {
	if initMetrics() != nil {
		return
	}
	routeTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}
