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
	"encoding/json"
	"fmt"
)

// Kind selects the traversal direction of a relation query.
type Kind int

const (
	// KindDeps follows edges forward: what the query id depends on.
	KindDeps Kind = iota

	// KindRefs follows edges in reverse: what depends on the query id.
	KindRefs
)

var kindNames = map[Kind]string{
	KindDeps: "deps",
	KindRefs: "refs",
}

// String returns the command name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts a command name into a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalJSON encodes the kind as its command name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a command name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Item is one neighbor of the query identifier.
//
// Path is nil when the neighbor has no node in the catalog; it serializes
// as null in that case.
type Item struct {
	ID       string  `json:"id"`
	Path     *string `json:"path"`
	Resolved bool    `json:"resolved"`
}

// Meta carries consistency diagnostics for a response.
type Meta struct {
	// MissingNodes lists neighbor ids that have edges but no node,
	// sorted and deduplicated.
	MissingNodes []string `json:"missing_nodes"`
}

// Response is the result of a relation query.
type Response struct {
	Command Kind   `json:"command"`
	QueryID string `json:"query_id"`
	Count   int    `json:"count"`
	Items   []Item `json:"items"`
	Meta    Meta   `json:"meta"`
}

// IDs returns the item identifiers in response order.
func (r *Response) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.ID)
	}
	return ids
}
