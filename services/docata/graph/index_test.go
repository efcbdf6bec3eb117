// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
)

func TestIndex_DepsAndRefs(t *testing.T) {
	c := &catalog.Catalog{
		Edges: []catalog.Edge{
			{From: "a", To: "b"},
			{From: "a", To: "c"},
			{From: "c", To: "b"},
			{From: "d", To: "ghost"},
		},
	}
	ix := NewIndex(c)

	assert.Equal(t, []string{"b", "c"}, ix.Deps("a"))
	assert.Equal(t, []string{"a", "c"}, ix.Refs("b"))
	assert.Equal(t, []string{"ghost"}, ix.Deps("d"))
	assert.Equal(t, []string{"d"}, ix.Refs("ghost"))
}

func TestIndex_UnknownIDIsEmpty(t *testing.T) {
	ix := NewIndex(&catalog.Catalog{})
	assert.Empty(t, ix.Deps("nope"))
	assert.Empty(t, ix.Refs("nope"))
}

func TestIndex_IgnoresNodes(t *testing.T) {
	ix := NewIndex(&catalog.Catalog{
		Nodes: []catalog.Node{{ID: "a", Path: "a.md"}},
	})
	assert.Empty(t, ix.Deps("a"))
}

func TestIndex_DoesNotSortOrDedupe(t *testing.T) {
	ix := NewIndex(&catalog.Catalog{
		Edges: []catalog.Edge{
			{From: "a", To: "z"},
			{From: "a", To: "b"},
			{From: "a", To: "z"},
		},
	})
	assert.Equal(t, []string{"z", "b", "z"}, ix.Deps("a"))
}

func TestIndex_ReturnsCopies(t *testing.T) {
	ix := NewIndex(&catalog.Catalog{Edges: []catalog.Edge{{From: "a", To: "b"}}})
	deps := ix.Deps("a")
	deps[0] = "mutated"
	assert.Equal(t, []string{"b"}, ix.Deps("a"))
}
