// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validate

import (
	"fmt"
	"strings"
)

// DuplicateID is an identifier declared by two or more records.
type DuplicateID struct {
	// ID is the shared identifier.
	ID string `json:"id"`

	// Paths is the sorted, deduplicated list of declaring paths.
	Paths []string `json:"paths"`
}

// UnresolvedDependency is a declared dependency on an identifier no record
// declares.
type UnresolvedDependency struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Path is the normalized path of the declaring record.
	Path string `json:"path"`
}

// DependencyCycle is a strongly connected component of the dependency graph
// with more than one member, or a single member that depends on itself.
type DependencyCycle struct {
	// IDs are the members in ascending order.
	IDs []string `json:"ids"`
}

// Report is the complete result of validating a record set.
//
// The three finding lists are independent. An empty report means the
// record set is valid.
type Report struct {
	DuplicateIDs           []DuplicateID          `json:"duplicate_ids"`
	UnresolvedDependencies []UnresolvedDependency `json:"unresolved_dependencies"`
	DependencyCycles       []DependencyCycle      `json:"dependency_cycles"`
}

// Empty reports whether there are no findings.
func (r Report) Empty() bool {
	return len(r.DuplicateIDs) == 0 &&
		len(r.UnresolvedDependencies) == 0 &&
		len(r.DependencyCycles) == 0
}

// FindingCount returns the total number of findings across all lists.
func (r Report) FindingCount() int {
	return len(r.DuplicateIDs) + len(r.UnresolvedDependencies) + len(r.DependencyCycles)
}

// String renders the report for humans. Sections without findings are
// omitted. Each line ends with a newline.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString("validation failed:\n")

	if len(r.DuplicateIDs) > 0 {
		fmt.Fprintf(&b, "- duplicate ids: %d\n", len(r.DuplicateIDs))
		for _, d := range r.DuplicateIDs {
			fmt.Fprintf(&b, "  - `%s` appears in: %s\n", d.ID, strings.Join(d.Paths, ", "))
		}
	}

	if len(r.UnresolvedDependencies) > 0 {
		fmt.Fprintf(&b, "- unresolved dependencies: %d\n", len(r.UnresolvedDependencies))
		for _, u := range r.UnresolvedDependencies {
			fmt.Fprintf(&b, "  - `%s` -> `%s` (from %s)\n", u.From, u.To, u.Path)
		}
	}

	if len(r.DependencyCycles) > 0 {
		fmt.Fprintf(&b, "- dependency cycles: %d\n", len(r.DependencyCycles))
		for _, c := range r.DependencyCycles {
			if len(c.IDs) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  - %s -> %s\n", strings.Join(c.IDs, " -> "), c.IDs[0])
		}
	}

	return b.String()
}
