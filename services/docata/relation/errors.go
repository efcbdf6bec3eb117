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

import "errors"

// Sentinel errors for relation queries.
var (
	// ErrQueryIDNotFound indicates a strict query for an id with no node.
	ErrQueryIDNotFound = errors.New("query id not found")

	// ErrUnknownKind indicates a relation name other than deps or refs.
	ErrUnknownKind = errors.New("unknown relation kind")

	// ErrUnknownFormat indicates an output format other than json or text.
	ErrUnknownFormat = errors.New("unknown output format")
)
