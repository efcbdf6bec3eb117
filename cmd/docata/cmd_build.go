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
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pranc1ngpegasus/docata/pkg/ux"
	"github.com/pranc1ngpegasus/docata/services/docata"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	buildWithMetadata bool
	buildWatch        bool
	buildDebounce     time.Duration
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var buildCmd = &cobra.Command{
	Use:   "build [DIR] [CATALOG]",
	Short: "Scan documents, validate them and write the catalog",
	Long: `Scan every Markdown document under DIR, validate ids and dependencies,
and write the canonical catalog to CATALOG.

Nothing is written when validation fails; the report is printed instead.

CATALOG is a file path, badger://DIR or sqlite://FILE.
DIR and CATALOG default to docs.dir and catalog.location from the
configuration (./docs and ./docs/catalog.json).

Examples:
  docata build
  docata build handbook handbook/catalog.json --with-node-metadata
  docata build --watch`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		opts := buildOptions{
			Dir:      argOr(args, 0, appConfig.Docs.Dir),
			Catalog:  argOr(args, 1, appConfig.Catalog.Location),
			Watch:    buildWatch,
			Debounce: buildDebounce,
		}
		exitCode = executeBuild(cmd.Context(), newService(buildWithMetadata), opts, cmd.ErrOrStderr())
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildWithMetadata, "with-node-metadata", false,
		"Include kind, domain, status and source_of_truth on catalog nodes")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false,
		"Rebuild whenever a document changes, until interrupted")
	buildCmd.Flags().DurationVar(&buildDebounce, "debounce", docata.DefaultWatchOptions().Debounce,
		"Quiet period before a watch rebuild")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

type buildOptions struct {
	Dir      string
	Catalog  string
	Watch    bool
	Debounce time.Duration
}

// executeBuild writes the catalog once, or keeps it current with --watch.
func executeBuild(ctx context.Context, svc *docata.Service, opts buildOptions, stderr io.Writer) int {
	p := ux.NewPrinter(stderr)
	if opts.Watch {
		return executeWatch(ctx, svc, opts, p)
	}

	if _, err := svc.WriteCatalog(ctx, opts.Dir, opts.Catalog); err != nil {
		reportError(p, err)
		return ExitFailure
	}
	return ExitSuccess
}

func executeWatch(ctx context.Context, svc *docata.Service, opts buildOptions, p *ux.Printer) int {
	w, err := docata.NewWatcher(svc, opts.Dir, opts.Catalog, docata.WatchOptions{
		Debounce: opts.Debounce,
		OnBuild: func(result *docata.BuildResult, err error) {
			if err != nil {
				if ctx.Err() == nil {
					reportError(p, err)
				}
				return
			}
			p.Success(fmt.Sprintf("catalog written to %s (%d nodes, %d edges)",
				result.Location, result.NodeCount, result.EdgeCount))
		},
	})
	if err != nil {
		p.Error(err.Error())
		return ExitFailure
	}
	if err := w.Run(ctx); err != nil {
		p.Error(err.Error())
		return ExitFailure
	}
	return ExitSuccess
}
