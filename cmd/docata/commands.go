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
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pranc1ngpegasus/docata/cmd/docata/config"
	"github.com/pranc1ngpegasus/docata/pkg/logging"
	"github.com/pranc1ngpegasus/docata/services/docata"
	"github.com/pranc1ngpegasus/docata/services/docata/telemetry"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// =============================================================================
// GLOBAL STATE
// =============================================================================

var (
	// Global flags
	configPath string
	logLevel   string
	logJSON    bool

	// Set by setupApp before any command runs.
	appConfig         config.Config
	appLogger         *logging.Logger
	baseLogger        *logging.Logger
	shutdownTelemetry func(context.Context) error

	// exitCode is set by a command's Run and returned by run.
	exitCode int

	rootCmd = &cobra.Command{
		Use:   "docata",
		Short: "Catalog Markdown documents and their declared dependencies",
		Long: `docata scans a directory of Markdown documents, reads the id and deps
declared in each document's YAML frontmatter, validates the resulting
dependency graph and writes a deterministic catalog.

The catalog answers two questions: what a document depends on (deps) and
what depends on a document (refs). "docata check" fails when the committed
catalog no longer matches the documents.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupApp,
		PersistentPostRun: teardownApp,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath,
		"Path to the project configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides the config file)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"Write logs to stderr as JSON")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// setupApp loads the configuration, then starts logging and telemetry.
//
// Flags override the configuration file. An explicit --config that does
// not exist is an error, except for init; the default path may be absent.
func setupApp(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("config") && cmd != initCmd {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = logJSON
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	baseLogger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Log.Dir,
		Service: "docata",
		JSON:    cfg.Log.JSON,
		Output:  cmd.ErrOrStderr(),
	})
	appLogger = baseLogger.With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(appLogger.Slog())

	shutdown, err := telemetry.Init(cmd.Context(), cfg.Telemetry)
	if err != nil {
		_ = baseLogger.Close()
		return fmt.Errorf("telemetry: %w", err)
	}
	shutdownTelemetry = shutdown
	appConfig = cfg

	appLogger.Debug("configuration loaded",
		slog.String("config", configPath),
		slog.String("command", cmd.Name()),
	)
	return nil
}

// teardownApp flushes telemetry and closes the log file.
func teardownApp(cmd *cobra.Command, args []string) {
	if shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := shutdownTelemetry(ctx); err != nil {
			appLogger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
		cancel()
		shutdownTelemetry = nil
	}
	if baseLogger != nil {
		_ = baseLogger.Close()
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// newService creates a service from the loaded configuration.
func newService(withNodeMetadata bool) *docata.Service {
	cfg := docata.DefaultServiceConfig()
	cfg.Exclude = appConfig.Docs.Exclude
	if appConfig.Docs.Workers > 0 {
		cfg.Workers = appConfig.Docs.Workers
	}
	cfg.IncludeNodeMetadata = appConfig.Catalog.IncludeNodeMetadata || withNodeMetadata
	cfg.Logger = appLogger.Slog()
	return docata.NewService(cfg)
}

// argOr returns args[i], or fallback when it was not given.
func argOr(args []string, i int, fallback string) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return fallback
}

// stringOr returns value, or fallback when value is empty.
func stringOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
