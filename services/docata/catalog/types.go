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

import "strings"

// Metadata holds the optional descriptive fields of a document.
//
// A nil field means the document did not declare it. Absent values order
// before present values when nodes are sorted.
type Metadata struct {
	Kind          *string `json:"kind,omitempty"`
	Domain        *string `json:"domain,omitempty"`
	Status        *string `json:"status,omitempty"`
	SourceOfTruth *string `json:"source_of_truth,omitempty"`
}

// IsZero reports whether no metadata field is set.
func (m Metadata) IsZero() bool {
	return m.Kind == nil && m.Domain == nil && m.Status == nil && m.SourceOfTruth == nil
}

// Record is the output of the document scanner for a single file.
//
// # Fields
//
//   - ID: Declared identifier. Not guaranteed unique across records.
//   - Deps: Declared dependency identifiers. May be empty or repeat.
//   - Path: Source path as produced by the scanner (not yet normalized).
//   - Metadata: Optional descriptive fields.
type Record struct {
	ID       string
	Deps     []string
	Path     string
	Metadata Metadata
}

// Node is one catalog entry. Metadata fields are flattened into the node's
// JSON object.
type Node struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Metadata
}

// Edge is one declared dependency from one identifier to another.
// The target may have no corresponding node.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Catalog is the canonical, sorted set of nodes and edges built from a
// complete record set.
type Catalog struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeCount returns the number of nodes.
func (c *Catalog) NodeCount() int {
	return len(c.Nodes)
}

// EdgeCount returns the number of edges.
func (c *Catalog) EdgeCount() int {
	return len(c.Edges)
}

// PathIndex maps each identifier to a node path. When several nodes share an
// identifier the last one in catalog order wins.
func (c *Catalog) PathIndex() map[string]string {
	paths := make(map[string]string, len(c.Nodes))
	for _, node := range c.Nodes {
		paths[node.ID] = node.Path
	}
	return paths
}

// HasNode reports whether any node carries the identifier.
func (c *Catalog) HasNode(id string) bool {
	for _, node := range c.Nodes {
		if node.ID == id {
			return true
		}
	}
	return false
}

// compareNodes orders nodes by (id, path, kind, domain, status,
// source_of_truth).
func compareNodes(a, b Node) int {
	if c := strings.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	if c := strings.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	if c := compareOptional(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := compareOptional(a.Domain, b.Domain); c != 0 {
		return c
	}
	if c := compareOptional(a.Status, b.Status); c != 0 {
		return c
	}
	return compareOptional(a.SourceOfTruth, b.SourceOfTruth)
}

func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return strings.Compare(*a, *b)
	}
}

func compareEdges(a, b Edge) int {
	if c := strings.Compare(a.From, b.From); c != 0 {
		return c
	}
	return strings.Compare(a.To, b.To)
}
