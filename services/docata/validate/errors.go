// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validate

import (
	"errors"
	"strings"
)

// ErrValidationFailed is the sentinel every ValidationError unwraps to.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError carries the full report of a failed validation.
//
// Use errors.As to recover the report:
//
//	var verr *validate.ValidationError
//	if errors.As(err, &verr) {
//	    render(verr.Report)
//	}
type ValidationError struct {
	Report Report
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return strings.TrimRight(e.Report.String(), "\n")
}

// Unwrap returns ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
