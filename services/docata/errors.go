// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docata

import (
	"errors"
	"fmt"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
)

// Sentinel errors for the docata service.
var (
	// ErrCatalogDrift indicates the persisted catalog differs from a fresh build.
	ErrCatalogDrift = errors.New("catalog drift")

	// ErrEmptyRoot indicates no document root was given.
	ErrEmptyRoot = errors.New("document root must not be empty")
)

// DriftError reports a persisted catalog that no longer matches its sources.
//
// Diff is computed from the persisted catalog to the regenerated one, so
// AddedNodes are nodes a rebuild would add. An empty Diff means the two
// differ only in serialization.
type DriftError struct {
	Location string
	Diff     catalog.Diff
}

// Error implements the error interface.
func (e *DriftError) Error() string {
	return fmt.Sprintf("catalog drift detected for %s: %s; run build", e.Location, e.Diff.Summary())
}

// Unwrap returns ErrCatalogDrift.
func (e *DriftError) Unwrap() error {
	return ErrCatalogDrift
}
