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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_CanonicalLayout(t *testing.T) {
	c := Build([]Record{
		{ID: "a", Deps: []string{"b"}, Path: "docs/a.md", Metadata: Metadata{Kind: str("adr"), SourceOfTruth: str("git")}},
		{ID: "b", Path: "docs/b.md"},
	}, WithNodeMetadata(true))

	data, err := Encode(c)
	require.NoError(t, err)

	want := `{
  "nodes": [
    {
      "id": "a",
      "path": "docs/a.md",
      "kind": "adr",
      "source_of_truth": "git"
    },
    {
      "id": "b",
      "path": "docs/b.md"
    }
  ],
  "edges": [
    {
      "from": "a",
      "to": "b"
    }
  ]
}
`
	assert.Equal(t, want, string(data))
}

func TestEncode_DoesNotEscapeHTML(t *testing.T) {
	data, err := Encode(Build([]Record{{ID: "a&b", Path: "<x>.md"}}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a&b"`)
	assert.Contains(t, string(data), `"<x>.md"`)
}

func TestDecode_ReencodesIdentically(t *testing.T) {
	original, err := Encode(Build(sampleRecords(), WithNodeMetadata(true)))
	require.NoError(t, err)

	decoded, err := Decode(original)
	require.NoError(t, err)

	again, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(original), string(again))
}

func TestDecode_IgnoresUnknownKeysAndFillsLists(t *testing.T) {
	c, err := Decode([]byte(`{"nodes":[{"id":"a","path":"a.md","extra":1}],"version":2}`))
	require.NoError(t, err)
	require.Len(t, c.Nodes, 1)
	assert.Equal(t, "a", c.Nodes[0].ID)
	assert.NotNil(t, c.Edges)
	assert.Empty(t, c.Edges)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`[1,2,3]`))
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
