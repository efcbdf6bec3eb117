// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph derives forward and reverse adjacency from catalog edges.
package graph

import (
	"slices"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
)

// Index is the adjacency view of a loaded catalog.
//
// Description:
//
//	Forward maps an identifier to the identifiers it depends on. Reverse
//	maps an identifier to the identifiers that depend on it. Only edges are
//	consulted; nodes are ignored. Neighbor lists keep catalog edge order
//	and are neither sorted nor deduplicated here.
//
// Thread Safety:
//
//	Index is immutable after NewIndex returns and safe for concurrent use.
type Index struct {
	forward map[string][]string
	reverse map[string][]string
}

// NewIndex builds an index from the catalog's edges.
//
// Inputs:
//
//	c - The loaded catalog. Must not be nil.
//
// Outputs:
//
//	*Index - A fresh index. Never nil.
func NewIndex(c *catalog.Catalog) *Index {
	ix := &Index{
		forward: make(map[string][]string),
		reverse: make(map[string][]string),
	}
	for _, edge := range c.Edges {
		ix.forward[edge.From] = append(ix.forward[edge.From], edge.To)
		ix.reverse[edge.To] = append(ix.reverse[edge.To], edge.From)
	}
	return ix
}

// Deps returns the dependency identifiers of id. Unknown ids yield an empty
// list. The returned slice is a copy.
func (ix *Index) Deps(id string) []string {
	return slices.Clone(ix.forward[id])
}

// Refs returns the identifiers that depend on id. Unknown ids yield an
// empty list. The returned slice is a copy.
func (ix *Index) Refs(id string) []string {
	return slices.Clone(ix.reverse[id])
}
