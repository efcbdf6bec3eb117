// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog defines the document catalog data model and the builder
// that turns parsed records into a canonical, byte-reproducible catalog.
//
// # Data Model
//
//	Record  ─┐                      ┌─ Node  (id, path, metadata)
//	Record  ─┼──► Build(records) ──►┤
//	Record  ─┘                      └─ Edge  (from, to)
//
// A Record is what the document scanner extracts from one file. Records are
// ephemeral: they feed the builder and the validator and are never persisted.
//
// # Determinism
//
// Build sorts and deduplicates at every aggregation boundary. Given the same
// record set in any order, Encode(Build(records)) yields identical bytes.
// The consistency check relies on that property to detect catalog drift.
//
// # What Build Does Not Do
//
//   - It does not reject edges whose target has no node.
//   - It does not collapse nodes that share an identifier.
//
// Both conditions are reported by the validate package instead.
//
// # Thread Safety
//
// All functions in this package are pure. A built Catalog must be treated as
// immutable and may be shared across goroutines.
package catalog
