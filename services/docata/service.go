// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package docata provides the document catalog service.
//
// The service ties the scanner, catalog builder, validation engine, catalog
// store and relation resolver into four operations:
//
//   - Build: scan and validate a document root, return canonical catalog bytes
//   - CheckStructure: scan and validate a document root
//   - Check: CheckStructure, then compare a fresh build with a persisted catalog
//   - QueryRelation: answer a deps/refs query against a persisted catalog
//
// Every operation loads or builds its state from scratch. Nothing is cached
// between calls, so a Service never serves a stale catalog.
//
// The same operations back the CLI, the HTTP API (handlers.go) and the MCP
// server (mcp.go).
package docata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
	"github.com/pranc1ngpegasus/docata/services/docata/graph"
	"github.com/pranc1ngpegasus/docata/services/docata/relation"
	"github.com/pranc1ngpegasus/docata/services/docata/scanner"
	"github.com/pranc1ngpegasus/docata/services/docata/storage"
	"github.com/pranc1ngpegasus/docata/services/docata/telemetry"
	"github.com/pranc1ngpegasus/docata/services/docata/validate"
)

// ServiceVersion is the version reported by the HTTP API and MCP server.
const ServiceVersion = "0.1.0"

// ServiceConfig configures the docata service.
type ServiceConfig struct {
	// Exclude holds gitignore-style patterns skipped by the scanner.
	Exclude []string

	// Workers is the maximum number of files parsed concurrently.
	// Default: runtime.NumCPU()
	Workers int

	// IncludeNodeMetadata emits kind, domain, status and source_of_truth
	// on catalog nodes.
	// Default: false
	IncludeNodeMetadata bool

	// Logger receives operational logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Workers: runtime.NumCPU(),
	}
}

// Service is the docata service.
//
// Thread Safety:
//
//	Service holds no mutable state and is safe for concurrent use.
type Service struct {
	config ServiceConfig
	logger *slog.Logger
}

// BuildResult describes a catalog written by WriteCatalog.
type BuildResult struct {
	// Location is where the catalog was stored.
	Location string

	// NodeCount and EdgeCount describe the written catalog.
	NodeCount int
	EdgeCount int

	// Data is the canonical catalog bytes.
	Data []byte
}

// NewService creates a service with the given configuration.
func NewService(config ServiceConfig) *Service {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{config: config, logger: logger}
}

// Config returns the service configuration.
func (s *Service) Config() ServiceConfig {
	return s.config
}

// Build scans root, validates the records and returns the canonical
// catalog bytes.
//
// Description:
//
//	Validation runs before the catalog is built. Any finding aborts the
//	build with a *validate.ValidationError carrying the full report.
//
// Inputs:
//
//	ctx - Context for cancellation of the scan.
//	root - Document root directory.
//
// Outputs:
//
//	[]byte - Canonical catalog JSON.
//	error - ErrEmptyRoot, a scan error, or *validate.ValidationError.
func (s *Service) Build(ctx context.Context, root string) ([]byte, error) {
	ctx, span := startSpan(ctx, "Build", attribute.String("docata.root", root))
	defer span.End()

	start := time.Now()
	c, data, err := s.build(ctx, root)
	if err != nil {
		recordBuildMetrics(ctx, "build", time.Since(start), -1, 0, false)
		telemetry.RecordError(span, err)
		return nil, err
	}

	recordBuildMetrics(ctx, "build", time.Since(start), c.NodeCount(), c.EdgeCount(), true)
	setCatalogSpanResult(span, c.NodeCount(), c.EdgeCount())
	telemetry.SetSpanOK(span)
	return data, nil
}

// WriteCatalog builds the catalog for root and saves it to location.
//
// Nothing is written when the build fails.
func (s *Service) WriteCatalog(ctx context.Context, root, location string) (*BuildResult, error) {
	ctx, span := startSpan(ctx, "WriteCatalog",
		attribute.String("docata.root", root),
		attribute.String("docata.location", location),
	)
	defer span.End()

	start := time.Now()
	c, data, err := s.build(ctx, root)
	if err == nil {
		err = storage.SaveTo(ctx, location, data, storage.WithLogger(s.logger))
	}
	if err != nil {
		recordBuildMetrics(ctx, "build", time.Since(start), -1, 0, false)
		telemetry.RecordError(span, err)
		return nil, err
	}

	recordBuildMetrics(ctx, "build", time.Since(start), c.NodeCount(), c.EdgeCount(), true)
	setCatalogSpanResult(span, c.NodeCount(), c.EdgeCount())
	telemetry.SetSpanOK(span)

	telemetry.LoggerWithTrace(ctx, s.logger).Info("catalog written",
		slog.String("location", location),
		slog.Int("nodes", c.NodeCount()),
		slog.Int("edges", c.EdgeCount()),
		slog.Duration("duration", time.Since(start)),
	)
	return &BuildResult{
		Location:  location,
		NodeCount: c.NodeCount(),
		EdgeCount: c.EdgeCount(),
		Data:      data,
	}, nil
}

// CheckStructure scans root and validates the records.
//
// Outputs:
//
//	error - nil when the document graph is valid, a scan error, or
//	*validate.ValidationError with the complete report.
func (s *Service) CheckStructure(ctx context.Context, root string) error {
	ctx, span := startSpan(ctx, "CheckStructure", attribute.String("docata.root", root))
	defer span.End()

	start := time.Now()
	records, err := s.scan(ctx, root)
	if err == nil {
		err = s.validateRecords(ctx, records)
	}
	recordBuildMetrics(ctx, "check_structure", time.Since(start), -1, 0, err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetSpanOK(span)
	return nil
}

// Check verifies that the catalog stored at location is exactly what a
// fresh build of root produces.
//
// Description:
//
//	Runs the same scan, validation and build as Build, then compares the
//	bytes with the persisted catalog. A byte difference is reported as a
//	*DriftError with a structural diff. A persisted catalog that does not
//	decode is diffed as if it were empty.
//
// Outputs:
//
//	error - nil on a match, *validate.ValidationError, *DriftError, or the
//	scan/store error unchanged.
func (s *Service) Check(ctx context.Context, root, location string) error {
	ctx, span := startSpan(ctx, "Check",
		attribute.String("docata.root", root),
		attribute.String("docata.location", location),
	)
	defer span.End()

	start := time.Now()
	err := s.check(ctx, root, location)
	recordBuildMetrics(ctx, "check", time.Since(start), -1, 0, err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetSpanOK(span)
	return nil
}

func (s *Service) check(ctx context.Context, root, location string) error {
	fresh, data, err := s.build(ctx, root)
	if err != nil {
		return err
	}

	persisted, err := storage.LoadFrom(ctx, location, storage.WithLogger(s.logger))
	if err != nil {
		return err
	}
	if bytes.Equal(persisted, data) {
		return nil
	}

	old, decodeErr := catalog.Decode(persisted)
	if decodeErr != nil {
		s.logger.Warn("persisted catalog does not decode",
			slog.String("location", location),
			slog.String("error", decodeErr.Error()),
		)
		old = catalog.Build(nil)
	}
	return &DriftError{Location: location, Diff: catalog.Compare(old, fresh)}
}

// QueryRelation answers a deps or refs query against the catalog stored at
// location.
//
// Description:
//
//	Loads and decodes the catalog, builds a fresh graph index and
//	resolves the query. In strict mode an id with no node fails with an
//	error wrapping relation.ErrQueryIDNotFound.
//
// Inputs:
//
//	ctx - Context for cancellation of the store read.
//	id - Literal query identifier.
//	location - Catalog location (see storage.Open).
//	kind - relation.KindDeps or relation.KindRefs.
//	strict - Fail on unknown ids instead of returning no items.
//
// Outputs:
//
//	*relation.Response - The resolved response.
//	error - Store or decode error, or relation.ErrQueryIDNotFound.
func (s *Service) QueryRelation(ctx context.Context, id, location string, kind relation.Kind, strict bool) (*relation.Response, error) {
	ctx, span := startSpan(ctx, "QueryRelation",
		attribute.String("docata.query_id", id),
		attribute.String("docata.kind", kind.String()),
		attribute.Bool("docata.strict", strict),
	)
	defer span.End()

	start := time.Now()
	resp, err := s.queryRelation(ctx, id, location, kind, strict)
	recordQueryMetrics(ctx, kind.String(), time.Since(start), err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("docata.count", resp.Count))
	telemetry.SetSpanOK(span)
	return resp, nil
}

func (s *Service) queryRelation(ctx context.Context, id, location string, kind relation.Kind, strict bool) (*relation.Response, error) {
	data, err := storage.LoadFrom(ctx, location, storage.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	c, err := catalog.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", location, err)
	}
	return relation.Resolve(c, graph.NewIndex(c), relation.Query{ID: id, Kind: kind, Strict: strict})
}

// build runs scan, validation and the catalog builder.
func (s *Service) build(ctx context.Context, root string) (*catalog.Catalog, []byte, error) {
	records, err := s.scan(ctx, root)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validateRecords(ctx, records); err != nil {
		return nil, nil, err
	}

	c := catalog.Build(records, catalog.WithNodeMetadata(s.config.IncludeNodeMetadata))
	data, err := catalog.Encode(c)
	if err != nil {
		return nil, nil, fmt.Errorf("encode catalog: %w", err)
	}
	return c, data, nil
}

func (s *Service) scan(ctx context.Context, root string) ([]catalog.Record, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}
	return scanner.Scan(ctx, scanner.Config{
		Root:    root,
		Exclude: s.config.Exclude,
		Workers: s.config.Workers,
		Logger:  s.logger,
	})
}

func (s *Service) validateRecords(ctx context.Context, records []catalog.Record) error {
	report := validate.BuildReport(records)
	if report.Empty() {
		return nil
	}
	recordValidationMetrics(ctx, report)
	s.logger.Debug("validation failed", slog.Int("findings", report.FindingCount()))
	return &validate.ValidationError{Report: report}
}

// IsUserError reports whether err is a finding about the documents or the
// query rather than an operational failure.
func IsUserError(err error) bool {
	var verr *validate.ValidationError
	var derr *DriftError
	return errors.As(err, &verr) || errors.As(err, &derr) || errors.Is(err, relation.ErrQueryIDNotFound)
}
