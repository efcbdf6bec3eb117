// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package relation

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
	"github.com/pranc1ngpegasus/docata/services/docata/graph"
)

func fixture(records ...catalog.Record) (*catalog.Catalog, *graph.Index) {
	c := catalog.Build(records)
	return c, graph.NewIndex(c)
}

func TestResolve_DepsAndRefs(t *testing.T) {
	c, ix := fixture(
		catalog.Record{ID: "a", Deps: []string{"b"}, Path: "docs/a.md"},
		catalog.Record{ID: "b", Path: "docs/b.md"},
	)

	deps, err := Resolve(c, ix, Query{ID: "a", Kind: KindDeps})
	require.NoError(t, err)
	require.Equal(t, 1, deps.Count)
	assert.Equal(t, "b", deps.Items[0].ID)
	assert.True(t, deps.Items[0].Resolved)
	assert.Equal(t, "docs/b.md", *deps.Items[0].Path)
	assert.Empty(t, deps.Meta.MissingNodes)

	refs, err := Resolve(c, ix, Query{ID: "b", Kind: KindRefs})
	require.NoError(t, err)
	require.Equal(t, 1, refs.Count)
	assert.Equal(t, "a", refs.Items[0].ID)
	assert.Equal(t, "docs/a.md", *refs.Items[0].Path)
	assert.Equal(t, KindRefs, refs.Command)
	assert.Equal(t, "b", refs.QueryID)
}

func TestResolve_UnknownIDNonStrict(t *testing.T) {
	c, ix := fixture(catalog.Record{ID: "a", Path: "a.md"})

	resp, err := Resolve(c, ix, Query{ID: "nope", Kind: KindDeps})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "nope", resp.QueryID)
}

func TestResolve_UnknownIDStrict(t *testing.T) {
	c, ix := fixture(catalog.Record{ID: "a", Path: "a.md"})

	resp, err := Resolve(c, ix, Query{ID: "nope", Kind: KindRefs, Strict: true})
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrQueryIDNotFound))
	assert.Contains(t, err.Error(), "nope")
}

func TestResolve_StrictKnownIDSucceeds(t *testing.T) {
	c, ix := fixture(catalog.Record{ID: "a", Path: "a.md"})

	resp, err := Resolve(c, ix, Query{ID: "a", Kind: KindDeps, Strict: true})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
}

func TestResolve_MissingNodes(t *testing.T) {
	c, ix := fixture(
		catalog.Record{ID: "a", Deps: []string{"ghost", "b", "ghost"}, Path: "a.md"},
		catalog.Record{ID: "b", Path: "b.md"},
	)

	resp, err := Resolve(c, ix, Query{ID: "a", Kind: KindDeps})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"b", "ghost"}, resp.IDs())
	assert.False(t, resp.Items[1].Resolved)
	assert.Nil(t, resp.Items[1].Path)
	assert.Equal(t, []string{"ghost"}, resp.Meta.MissingNodes)
}

func TestResolve_SortsAndDedupesRawNeighbors(t *testing.T) {
	c := &catalog.Catalog{
		Nodes: []catalog.Node{{ID: "a", Path: "a.md"}, {ID: "b", Path: "b.md"}, {ID: "c", Path: "c.md"}},
		Edges: []catalog.Edge{{From: "a", To: "c"}, {From: "a", To: "b"}, {From: "a", To: "c"}},
	}
	resp, err := Resolve(c, graph.NewIndex(c), Query{ID: "a", Kind: KindDeps})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, resp.IDs())
}

func TestResolve_EndToEnd(t *testing.T) {
	c, ix := fixture(
		catalog.Record{ID: "a", Deps: []string{"b"}, Path: "a.md"},
		catalog.Record{ID: "b", Deps: []string{"a"}, Path: "b.md"},
		catalog.Record{ID: "c", Path: "c.md"},
	)

	deps, err := Resolve(c, ix, Query{ID: "a", Kind: KindDeps})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, deps.IDs())

	refs, err := Resolve(c, ix, Query{ID: "a", Kind: KindRefs})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, refs.IDs())

	none, err := Resolve(c, ix, Query{ID: "c", Kind: KindDeps})
	require.NoError(t, err)
	assert.Empty(t, none.IDs())
}

func TestWrite_JSON(t *testing.T) {
	c, ix := fixture(
		catalog.Record{ID: "a", Deps: []string{"b", "ghost"}, Path: "a.md"},
		catalog.Record{ID: "b", Path: "b.md"},
	)
	resp, err := Resolve(c, ix, Query{ID: "a", Kind: KindDeps})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, resp, FormatJSON))

	want := `{
  "command": "deps",
  "query_id": "a",
  "count": 2,
  "items": [
    {
      "id": "b",
      "path": "b.md",
      "resolved": true
    },
    {
      "id": "ghost",
      "path": null,
      "resolved": false
    }
  ],
  "meta": {
    "missing_nodes": [
      "ghost"
    ]
  }
}
`
	assert.Equal(t, want, buf.String())

	var decoded Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, KindDeps, decoded.Command)
}

func TestWrite_Text(t *testing.T) {
	c, ix := fixture(
		catalog.Record{ID: "x", Deps: []string{"a"}, Path: "x.md"},
		catalog.Record{ID: "y", Deps: []string{"a"}, Path: "y.md"},
		catalog.Record{ID: "a", Path: "a.md"},
	)
	resp, err := Resolve(c, ix, Query{ID: "a", Kind: KindRefs})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, resp, FormatText))
	assert.Equal(t, "x\ny\n", buf.String())
}

func TestWrite_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &Response{Items: []Item{}}, FormatText))
	assert.Empty(t, buf.String())
}

func TestParseKindAndFormat(t *testing.T) {
	k, err := ParseKind("refs")
	require.NoError(t, err)
	assert.Equal(t, KindRefs, k)

	_, err = ParseKind("both")
	assert.ErrorIs(t, err, ErrUnknownKind)

	f, err := ParseFormat("text")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("yaml")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, FormatJSON, DefaultFormat(KindDeps))
	assert.Equal(t, FormatText, DefaultFormat(KindRefs))
}
