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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode serializes the catalog in canonical form.
//
// Description:
//
//	Two-space indented JSON, keys in declaration order, HTML characters
//	left unescaped, terminated by a newline. Nil lists are written as [].
//	Equal catalogs always encode to equal bytes.
//
// Outputs:
//
//	[]byte - Canonical bytes.
//	error - Non-nil only if JSON encoding fails.
func Encode(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes the canonical serialization of c to w.
func EncodeTo(w io.Writer, c *Catalog) error {
	view := Catalog{Nodes: c.Nodes, Edges: c.Edges}
	if view.Nodes == nil {
		view.Nodes = []Node{}
	}
	if view.Edges == nil {
		view.Edges = []Edge{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

// Decode parses catalog JSON. Unknown keys are ignored.
//
// Outputs:
//
//	*Catalog - The decoded catalog with non-nil Nodes and Edges.
//	error - Wraps ErrInvalidCatalog if data is not a catalog object.
func Decode(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if c.Nodes == nil {
		c.Nodes = []Node{}
	}
	if c.Edges == nil {
		c.Edges = []Edge{}
	}
	return &c, nil
}
