// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docata

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/pranc1ngpegasus/docata/services/docata/validate"
)

// Package-level tracer and meter. Both are no-ops until telemetry.Init
// installs providers.
var (
	tracer = otel.Tracer("docata")
	meter  = otel.Meter("docata")
)

// Metrics for build, check and query operations.
var (
	buildLatency       metric.Float64Histogram
	buildTotal         metric.Int64Counter
	catalogNodes       metric.Int64Histogram
	catalogEdges       metric.Int64Histogram
	queryLatency       metric.Float64Histogram
	validationFindings metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"docata_build_duration_seconds",
			metric.WithDescription("Duration of catalog build and check operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"docata_build_total",
			metric.WithDescription("Total number of catalog build and check operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		catalogNodes, err = meter.Int64Histogram(
			"docata_catalog_nodes",
			metric.WithDescription("Number of nodes per built catalog"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		catalogEdges, err = meter.Int64Histogram(
			"docata_catalog_edges",
			metric.WithDescription("Number of edges per built catalog"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		queryLatency, err = meter.Float64Histogram(
			"docata_query_duration_seconds",
			metric.WithDescription("Duration of relation queries"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		validationFindings, err = meter.Int64Counter(
			"docata_validation_findings",
			metric.WithDescription("Validation findings by kind"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordBuildMetrics records one build or check. Node and edge counts are
// recorded only when a catalog was produced.
func recordBuildMetrics(ctx context.Context, op string, duration time.Duration, nodeCount, edgeCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.Bool("success", success),
	)
	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)

	if nodeCount >= 0 {
		catalogNodes.Record(ctx, int64(nodeCount))
		catalogEdges.Record(ctx, int64(edgeCount))
	}
}

// recordValidationMetrics records the findings of a failed validation.
func recordValidationMetrics(ctx context.Context, report validate.Report) {
	if err := initMetrics(); err != nil {
		return
	}
	add := func(kind string, n int) {
		if n > 0 {
			validationFindings.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
		}
	}
	add("duplicate_id", len(report.DuplicateIDs))
	add("unresolved_dependency", len(report.UnresolvedDependencies))
	add("dependency_cycle", len(report.DependencyCycles))
}

// recordQueryMetrics records one relation query.
func recordQueryMetrics(ctx context.Context, kind string, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	queryLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("success", success),
	))
}

// startSpan starts a span for a service operation on root or location.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "docata."+name, trace.WithAttributes(attrs...))
}

// setCatalogSpanResult records the catalog size on span.
func setCatalogSpanResult(span trace.Span, nodeCount, edgeCount int) {
	span.SetAttributes(
		attribute.Int("docata.node_count", nodeCount),
		attribute.Int("docata.edge_count", edgeCount),
	)
}
