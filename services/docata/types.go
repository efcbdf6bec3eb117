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
	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
	"github.com/pranc1ngpegasus/docata/services/docata/validate"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeQueryIDNotFound    = "QUERY_ID_NOT_FOUND"
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	CodeInvalidParameter   = "INVALID_PARAMETER"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeCatalogDrift       = "CATALOG_DRIFT"
	CodeCheckFailed        = "CHECK_FAILED"
	CodeNotConfigured      = "NOT_CONFIGURED"
)

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the machine-readable error code.
	Code string `json:"code,omitempty"`
}

// HealthResponse is the response for GET /v1/docata/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// CheckResponse is the response for a passing GET /v1/docata/check.
type CheckResponse struct {
	OK bool `json:"ok"`
}

// ValidationFailedResponse is returned with 422 when the documents do not
// validate.
type ValidationFailedResponse struct {
	ErrorResponse
	Report validate.Report `json:"report"`
}

// DriftResponse is returned with 409 when the persisted catalog is stale.
type DriftResponse struct {
	ErrorResponse
	Location string       `json:"location"`
	Diff     catalog.Diff `json:"diff"`
}
