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
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RegisterRoutes registers all docata routes with the router.
//
// Description:
//
//	Registers all /v1/docata/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	GET /v1/docata/health - Health check
//	GET /v1/docata/deps/*id - Forward dependencies of a document
//	GET /v1/docata/refs/*id - Documents referring to a document
//	GET /v1/docata/check - Consistency check of documents and catalog
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	docata := rg.Group("/docata")
	{
		docata.GET("/health", handlers.HandleHealth)
		docata.GET("/deps/*id", handlers.HandleDeps)
		docata.GET("/refs/*id", handlers.HandleRefs)
		docata.GET("/check", handlers.HandleCheck)
	}
}

// NewRouter builds the gin engine served by `docata serve`.
//
// The engine recovers from panics, traces every request with otelgin and,
// when metrics is non-nil, exposes it at /metrics.
func NewRouter(handlers *Handlers, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("docata"))

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)
	return router
}
