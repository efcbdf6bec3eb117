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
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pranc1ngpegasus/docata/services/docata/relation"
	"github.com/pranc1ngpegasus/docata/services/docata/telemetry"
	"github.com/pranc1ngpegasus/docata/services/docata/validate"
)

// HandlerConfig tells the handlers where the documents and catalog live.
type HandlerConfig struct {
	// DocsDir is the document root used by the check endpoint.
	DocsDir string

	// CatalogLocation is the catalog read by every query (see storage.Open).
	CatalogLocation string

	// Version is reported by the health endpoint and the MCP server.
	// Default: ServiceVersion
	Version string
}

func (c HandlerConfig) withDefaults() HandlerConfig {
	if c.Version == "" {
		c.Version = ServiceVersion
	}
	return c
}

// Handlers contains the HTTP handlers for the docata API.
type Handlers struct {
	svc    *Service
	config HandlerConfig
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service, config HandlerConfig) *Handlers {
	config = config.withDefaults()
	return &Handlers{svc: svc, config: config}
}

// getOrCreateRequestID returns the X-Request-ID header, generating one if
// absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// HandleHealth handles GET /v1/docata/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	getOrCreateRequestID(c)
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Version: h.config.Version})
}

// HandleDeps handles GET /v1/docata/deps/*id.
//
// The id is the rest of the path, so ids containing "/" work unescaped.
//
// Query Parameters:
//
//	strict: "true" fails with 404 when the id has no node (optional)
//
// Response:
//
//	200 OK: relation.Response
//	400 Bad Request: empty id or invalid strict value
//	404 Not Found: strict mode and unknown id
//	500 Internal Server Error: catalog could not be loaded
func (h *Handlers) HandleDeps(c *gin.Context) {
	h.handleRelation(c, relation.KindDeps)
}

// HandleRefs handles GET /v1/docata/refs/*id. See HandleDeps.
func (h *Handlers) HandleRefs(c *gin.Context) {
	h.handleRelation(c, relation.KindRefs)
}

func (h *Handlers) handleRelation(c *gin.Context, kind relation.Kind) {
	requestID := getOrCreateRequestID(c)
	ctx := c.Request.Context()
	logger := telemetry.LoggerWithTrace(ctx, h.svc.logger).With(
		slog.String("request_id", requestID),
		slog.String("kind", kind.String()),
	)

	id := strings.TrimPrefix(c.Param("id"), "/")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "id is required",
			Code:  CodeInvalidParameter,
		})
		return
	}

	strict := false
	if raw := c.Query("strict"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "strict must be a boolean",
				Code:  CodeInvalidParameter,
			})
			return
		}
		strict = parsed
	}

	resp, err := h.svc.QueryRelation(ctx, id, h.config.CatalogLocation, kind, strict)
	if err != nil {
		if errors.Is(err, relation.ErrQueryIDNotFound) {
			logger.Info("query id not found", slog.String("id", id))
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeQueryIDNotFound})
			return
		}
		logger.Error("catalog unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeCatalogUnavailable})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleCheck handles GET /v1/docata/check.
//
// Description:
//
//	Runs the full consistency check of the configured document root
//	against the configured catalog.
//
// Response:
//
//	200 OK: {"ok": true}
//	409 Conflict: DriftResponse
//	422 Unprocessable Entity: ValidationFailedResponse
//	500 Internal Server Error: scan or store failure
//	503 Service Unavailable: no document root configured
func (h *Handlers) HandleCheck(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	ctx := c.Request.Context()
	logger := telemetry.LoggerWithTrace(ctx, h.svc.logger).With(slog.String("request_id", requestID))

	if h.config.DocsDir == "" {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "no document root configured",
			Code:  CodeNotConfigured,
		})
		return
	}

	err := h.svc.Check(ctx, h.config.DocsDir, h.config.CatalogLocation)

	var verr *validate.ValidationError
	var derr *DriftError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, CheckResponse{OK: true})
	case errors.As(err, &verr):
		logger.Info("check found validation errors", slog.Int("findings", verr.Report.FindingCount()))
		c.JSON(http.StatusUnprocessableEntity, ValidationFailedResponse{
			ErrorResponse: ErrorResponse{Error: validate.ErrValidationFailed.Error(), Code: CodeValidationFailed},
			Report:        verr.Report,
		})
	case errors.As(err, &derr):
		logger.Info("check found catalog drift", slog.String("summary", derr.Diff.Summary()))
		c.JSON(http.StatusConflict, DriftResponse{
			ErrorResponse: ErrorResponse{Error: derr.Error(), Code: CodeCatalogDrift},
			Location:      derr.Location,
			Diff:          derr.Diff,
		})
	default:
		logger.Error("check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeCheckFailed})
	}
}
