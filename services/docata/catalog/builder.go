// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import "slices"

// BuildOptions configures catalog construction.
type BuildOptions struct {
	// IncludeNodeMetadata keeps kind/domain/status/source_of_truth on nodes.
	// Default: false (nodes carry only id and path).
	IncludeNodeMetadata bool
}

// BuildOption is a functional option for Build.
type BuildOption func(*BuildOptions)

// WithNodeMetadata controls whether node metadata is kept.
func WithNodeMetadata(include bool) BuildOption {
	return func(o *BuildOptions) {
		o.IncludeNodeMetadata = include
	}
}

// DefaultBuildOptions returns the default build options.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{}
}

// Build constructs the canonical catalog from a complete record set.
//
// Description:
//
//	Creates one node per record with a normalized path, then sorts nodes by
//	(id, path, kind, domain, status, source_of_truth) and drops exact
//	duplicates. Emits one edge per declared dependency, then sorts and
//	deduplicates the edge list. Metadata is stripped before sorting when
//	IncludeNodeMetadata is off, so the output stays sorted and unique.
//
//	Input order does not matter. Dangling edges and shared identifiers are
//	kept as-is.
//
// Inputs:
//
//	records - All parsed records. May be empty.
//	opts - Optional build options.
//
// Outputs:
//
//	*Catalog - The built catalog. Never nil; Nodes and Edges are non-nil.
//
// Thread Safety: Pure function; safe for concurrent use.
func Build(records []Record, opts ...BuildOption) *Catalog {
	options := DefaultBuildOptions()
	for _, opt := range opts {
		opt(&options)
	}

	nodes := make([]Node, 0, len(records))
	edgeCount := 0
	for _, record := range records {
		node := Node{
			ID:   record.ID,
			Path: NormalizePath(record.Path),
		}
		if options.IncludeNodeMetadata {
			node.Metadata = record.Metadata
		}
		nodes = append(nodes, node)
		edgeCount += len(record.Deps)
	}

	edges := make([]Edge, 0, edgeCount)
	for _, record := range records {
		for _, dep := range record.Deps {
			edges = append(edges, Edge{From: record.ID, To: dep})
		}
	}

	return &Catalog{
		Nodes: sortNodes(nodes),
		Edges: sortEdges(edges),
	}
}

// sortNodes sorts in place and removes byte-identical neighbours.
func sortNodes(nodes []Node) []Node {
	slices.SortFunc(nodes, compareNodes)
	return slices.CompactFunc(nodes, func(a, b Node) bool {
		return compareNodes(a, b) == 0
	})
}

func sortEdges(edges []Edge) []Edge {
	slices.SortFunc(edges, compareEdges)
	return slices.Compact(edges)
}
