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

import (
	"fmt"
	"strings"
)

// Diff is the structural difference between a persisted catalog and a
// freshly built one.
//
// Added entries exist only in the fresh catalog; removed entries exist only
// in the persisted one. Each list is sorted in catalog order.
type Diff struct {
	AddedNodes   []Node `json:"added_nodes"`
	RemovedNodes []Node `json:"removed_nodes"`
	AddedEdges   []Edge `json:"added_edges"`
	RemovedEdges []Edge `json:"removed_edges"`
}

// Empty reports whether the two catalogs hold the same nodes and edges.
//
// An empty diff does not imply identical bytes: a persisted file may differ
// only in formatting or ordering.
func (d Diff) Empty() bool {
	return len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0
}

// Summary renders a one-line count of the changes.
func (d Diff) Summary() string {
	if d.Empty() {
		return "no structural changes (formatting differs)"
	}
	var parts []string
	add := func(n int, what string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(len(d.AddedNodes), "node(s) added")
	add(len(d.RemovedNodes), "node(s) removed")
	add(len(d.AddedEdges), "edge(s) added")
	add(len(d.RemovedEdges), "edge(s) removed")
	return strings.Join(parts, ", ")
}

// Compare computes the structural diff from persisted to fresh.
//
// Thread Safety: Pure function; safe for concurrent use.
func Compare(persisted, fresh *Catalog) Diff {
	diff := Diff{
		AddedNodes:   nodesMissingFrom(fresh.Nodes, persisted.Nodes),
		RemovedNodes: nodesMissingFrom(persisted.Nodes, fresh.Nodes),
		AddedEdges:   edgesMissingFrom(fresh.Edges, persisted.Edges),
		RemovedEdges: edgesMissingFrom(persisted.Edges, fresh.Edges),
	}
	return diff
}

// nodesMissingFrom returns the sorted, deduplicated nodes of src that have no
// equal node in other.
func nodesMissingFrom(src, other []Node) []Node {
	seen := make(map[string]struct{}, len(other))
	for _, n := range other {
		seen[nodeKey(n)] = struct{}{}
	}
	out := make([]Node, 0)
	for _, n := range src {
		if _, ok := seen[nodeKey(n)]; !ok {
			out = append(out, n)
		}
	}
	return sortNodes(out)
}

// nodeKey is the identity of a node for set membership. Absent metadata is
// encoded distinctly from an empty string.
func nodeKey(n Node) string {
	var b strings.Builder
	b.WriteString(n.ID)
	b.WriteByte(0)
	b.WriteString(n.Path)
	for _, field := range []*string{n.Kind, n.Domain, n.Status, n.SourceOfTruth} {
		b.WriteByte(0)
		if field == nil {
			b.WriteByte('-')
			continue
		}
		b.WriteByte('+')
		b.WriteString(*field)
	}
	return b.String()
}

func edgesMissingFrom(src, other []Edge) []Edge {
	seen := make(map[Edge]struct{}, len(other))
	for _, e := range other {
		seen[e] = struct{}{}
	}
	out := make([]Edge, 0)
	for _, e := range src {
		if _, ok := seen[e]; !ok {
			out = append(out, e)
		}
	}
	return sortEdges(out)
}
