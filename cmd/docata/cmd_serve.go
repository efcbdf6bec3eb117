// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pranc1ngpegasus/docata/pkg/ux"
	"github.com/pranc1ngpegasus/docata/services/docata"
	"github.com/pranc1ngpegasus/docata/services/docata/telemetry"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	serveAddr    string
	serveCatalog string
	serveDir     string
	serveDebug   bool

	mcpCatalog string
	mcpDir     string
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over HTTP",
	Long: `Start the HTTP API. Every request reads the catalog fresh, so a rebuilt
catalog is served without a restart.

Endpoints:
  GET /v1/docata/health
  GET /v1/docata/deps/*id?strict=true
  GET /v1/docata/refs/*id?strict=true
  GET /v1/docata/check
  GET /metrics            (with telemetry.metric_exporter: prometheus)

Examples:
  docata serve
  docata serve --addr 127.0.0.1:9090 --catalog sqlite://build/catalog.db
  curl http://localhost:8080/v1/docata/deps/adr-001`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if serveDebug {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
		opts := serveOptions{
			Addr: stringOr(serveAddr, appConfig.Serve.Addr),
			Handler: docata.HandlerConfig{
				DocsDir:         stringOr(serveDir, appConfig.Docs.Dir),
				CatalogLocation: stringOr(serveCatalog, appConfig.Catalog.Location),
			},
		}
		exitCode = executeServe(cmd.Context(), newService(false), opts, cmd.ErrOrStderr())
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the catalog to MCP clients over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout with three tools:

  deps             documents an id depends on
  refs             documents that depend on an id
  check_structure  validate the document root

Logs go to stderr.

Example client configuration:
  {"command": "docata", "args": ["mcp", "--catalog", "docs/catalog.json"]}`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := docata.HandlerConfig{
			DocsDir:         stringOr(mcpDir, appConfig.Docs.Dir),
			CatalogLocation: stringOr(mcpCatalog, appConfig.Catalog.Location),
		}
		exitCode = executeMCP(cmd.Context(), newService(false), config, cmd.ErrOrStderr())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"Listen address (default serve.addr, :8080)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "",
		"Catalog location (default catalog.location)")
	serveCmd.Flags().StringVar(&serveDir, "dir", "",
		"Document root for /check (default docs.dir)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false,
		"Enable gin debug mode")

	mcpCmd.Flags().StringVar(&mcpCatalog, "catalog", "",
		"Catalog location (default catalog.location)")
	mcpCmd.Flags().StringVar(&mcpDir, "dir", "",
		"Document root for check_structure (default docs.dir)")
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

type serveOptions struct {
	Addr    string
	Handler docata.HandlerConfig

	// ready, when set, receives the bound address once listening.
	ready chan<- string
}

// executeServe serves the HTTP API until ctx is cancelled, then shuts the
// server down gracefully.
func executeServe(ctx context.Context, svc *docata.Service, opts serveOptions, stderr io.Writer) int {
	p := ux.NewPrinter(stderr)
	router := docata.NewRouter(docata.NewHandlers(svc, opts.Handler), telemetry.MetricsHandler())

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		p.Error(err.Error())
		return ExitFailure
	}
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("starting docata server",
		slog.String("address", ln.Addr().String()),
		slog.String("catalog", opts.Handler.CatalogLocation),
	)
	if opts.ready != nil {
		opts.ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.Error(err.Error())
			return ExitFailure
		}
		return ExitSuccess
	case <-ctx.Done():
	}

	slog.Info("shutting down docata server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		p.Error(err.Error())
		return ExitFailure
	}
	return ExitSuccess
}

// executeMCP runs the MCP server on stdio until the client disconnects or
// ctx is cancelled.
func executeMCP(ctx context.Context, svc *docata.Service, config docata.HandlerConfig, stderr io.Writer) int {
	server := docata.NewMCPServer(svc, config)
	slog.Info("starting docata MCP server", slog.String("catalog", config.CatalogLocation))
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		ux.NewPrinter(stderr).Error(err.Error())
		return ExitFailure
	}
	return ExitSuccess
}
