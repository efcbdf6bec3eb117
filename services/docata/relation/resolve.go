// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package relation answers deps/refs queries against a loaded catalog.
package relation

import (
	"fmt"
	"slices"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
	"github.com/pranc1ngpegasus/docata/services/docata/graph"
)

// Query describes one relation lookup.
type Query struct {
	// ID is the literal query identifier.
	ID string

	// Kind selects deps or refs.
	Kind Kind

	// Strict fails with ErrQueryIDNotFound when ID has no node.
	// When false, an unknown ID has no neighbors.
	Strict bool
}

// Resolve answers a relation query.
//
// Description:
//
//	Looks up the raw neighbors of q.ID in the index, sorts and deduplicates
//	them, and resolves each against the catalog's id→path map. Neighbors
//	with no node are returned with Resolved=false and listed in
//	Meta.MissingNodes, which signals that the catalog's nodes and edges
//	disagree.
//
// Inputs:
//
//	c - The loaded catalog. Must not be nil.
//	ix - The index built from c. Must not be nil.
//	q - The query.
//
// Outputs:
//
//	*Response - The response. Items and MissingNodes are never nil.
//	error - Wraps ErrQueryIDNotFound in strict mode when q.ID has no node.
//
// Thread Safety: Pure function; safe for concurrent use.
func Resolve(c *catalog.Catalog, ix *graph.Index, q Query) (*Response, error) {
	if q.Strict && !c.HasNode(q.ID) {
		return nil, fmt.Errorf("%w: %s", ErrQueryIDNotFound, q.ID)
	}

	var ids []string
	switch q.Kind {
	case KindDeps:
		ids = ix.Deps(q.ID)
	case KindRefs:
		ids = ix.Refs(q.ID)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(q.Kind))
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	paths := c.PathIndex()
	items := make([]Item, 0, len(ids))
	missing := make([]string, 0)
	for _, id := range ids {
		if path, ok := paths[id]; ok {
			items = append(items, Item{ID: id, Path: &path, Resolved: true})
			continue
		}
		items = append(items, Item{ID: id})
		missing = append(missing, id)
	}
	slices.Sort(missing)

	return &Response{
		Command: q.Kind,
		QueryID: q.ID,
		Count:   len(items),
		Items:   items,
		Meta:    Meta{MissingNodes: slices.Compact(missing)},
	}, nil
}
