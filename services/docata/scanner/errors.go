// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scanner

import (
	"errors"
	"fmt"
)

// Sentinel errors for scanning.
var (
	// Configuration errors
	ErrEmptyRoot         = errors.New("document root must not be empty")
	ErrRootNotDirectory  = errors.New("document root is not a directory")
	ErrInvalidMaxWorkers = errors.New("workers must be greater than 0")

	// Parsing errors
	ErrFrontmatterTooLarge = errors.New("frontmatter is too large")
	ErrMissingID           = errors.New("frontmatter has no id")
	ErrInvalidFrontmatter  = errors.New("failed to parse yaml frontmatter")
)

// ParseFileError represents a fatal error reading or parsing one document.
type ParseFileError struct {
	FilePath string
	Err      error
}

// Error implements the error interface.
func (e *ParseFileError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.FilePath, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseFileError) Unwrap() error {
	return e.Err
}
