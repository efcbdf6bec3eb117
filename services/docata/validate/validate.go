// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validate checks the referential integrity and acyclicity of a
// parsed record set before it is committed to a catalog.
//
// # Findings
//
//   - Duplicate identifiers: one group per identifier declared by two or
//     more records.
//   - Unresolved dependencies: declared dependencies on identifiers that no
//     record declares.
//   - Dependency cycles: strongly connected components found with Tarjan's
//     algorithm over edges between known identifiers.
//
// All three checks always run. Callers receive the complete Report rather
// than the first problem found.
//
// # Determinism
//
// Every finding list is sorted after aggregation, so the report is
// independent of record arrival order.
package validate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
)

// BuildReport runs every check and returns the complete report.
//
// Thread Safety: Pure function; safe for concurrent use.
func BuildReport(records []catalog.Record) Report {
	return Report{
		DuplicateIDs:           findDuplicateIDs(records),
		UnresolvedDependencies: findUnresolvedDependencies(records),
		DependencyCycles:       findDependencyCycles(records),
	}
}

// Records validates the record set.
//
// Outputs:
//
//	error - nil if the report is empty, otherwise *ValidationError.
func Records(records []catalog.Record) error {
	report := BuildReport(records)
	if report.Empty() {
		return nil
	}
	return &ValidationError{Report: report}
}

func findDuplicateIDs(records []catalog.Record) []DuplicateID {
	byID := make(map[string][]string)
	for _, r := range records {
		byID[r.ID] = append(byID[r.ID], catalog.NormalizePath(r.Path))
	}

	out := make([]DuplicateID, 0)
	for id, paths := range byID {
		if len(paths) < 2 {
			continue
		}
		slices.Sort(paths)
		out = append(out, DuplicateID{ID: id, Paths: slices.Compact(paths)})
	}

	slices.SortFunc(out, func(a, b DuplicateID) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func findUnresolvedDependencies(records []catalog.Record) []UnresolvedDependency {
	known := knownIDs(records)

	type ordered struct {
		id   string
		path string
		deps []string
	}
	sorted := make([]ordered, 0, len(records))
	for _, r := range records {
		sorted = append(sorted, ordered{id: r.ID, path: catalog.NormalizePath(r.Path), deps: r.Deps})
	}
	slices.SortStableFunc(sorted, func(a, b ordered) int {
		return cmp.Or(cmp.Compare(a.id, b.id), cmp.Compare(a.path, b.path))
	})

	out := make([]UnresolvedDependency, 0)
	for _, r := range sorted {
		deps := slices.Clone(r.deps)
		slices.Sort(deps)
		for _, dep := range slices.Compact(deps) {
			if _, ok := known[dep]; !ok {
				out = append(out, UnresolvedDependency{From: r.id, To: dep, Path: r.path})
			}
		}
	}
	return out
}

func findDependencyCycles(records []catalog.Record) []DependencyCycle {
	adjacency := knownAdjacency(records)

	components := stronglyConnectedComponents(adjacency)

	cycles := make([]DependencyCycle, 0)
	for _, component := range components {
		if len(component) == 1 && !slices.Contains(adjacency[component[0]], component[0]) {
			continue
		}
		slices.Sort(component)
		cycles = append(cycles, DependencyCycle{IDs: component})
	}

	slices.SortFunc(cycles, func(a, b DependencyCycle) int {
		return strings.Compare(strings.Join(a.IDs, "\x00"), strings.Join(b.IDs, "\x00"))
	})
	return cycles
}

func knownIDs(records []catalog.Record) map[string]struct{} {
	known := make(map[string]struct{}, len(records))
	for _, r := range records {
		known[r.ID] = struct{}{}
	}
	return known
}

// knownAdjacency maps every known id to its sorted, deduplicated
// dependencies, keeping only dependencies that are themselves known.
func knownAdjacency(records []catalog.Record) map[string][]string {
	known := knownIDs(records)

	adjacency := make(map[string][]string, len(known))
	for id := range known {
		adjacency[id] = nil
	}
	for _, r := range records {
		for _, dep := range r.Deps {
			if _, ok := known[dep]; ok {
				adjacency[r.ID] = append(adjacency[r.ID], dep)
			}
		}
	}
	for id, deps := range adjacency {
		slices.Sort(deps)
		adjacency[id] = slices.Compact(deps)
	}
	return adjacency
}
