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

	"github.com/spf13/cobra"

	"github.com/pranc1ngpegasus/docata/pkg/ux"
	"github.com/pranc1ngpegasus/docata/services/docata"
)

var (
	checkCatalog      string
	checkWithMetadata bool
)

var checkCmd = &cobra.Command{
	Use:   "check [DIR]",
	Short: "Validate documents and, with --catalog, detect a stale catalog",
	Long: `Without --catalog, scan DIR and report duplicate ids, unresolved
dependencies and dependency cycles.

With --catalog, additionally rebuild the catalog in memory and fail when
it differs from the one stored at LOCATION. Use the same
--with-node-metadata setting that built the stored catalog.

Prints "ok" and exits 0 when everything matches.

Examples:
  docata check
  docata check docs --catalog docs/catalog.json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := argOr(args, 0, appConfig.Docs.Dir)
		exitCode = executeCheck(cmd.Context(), newService(checkWithMetadata), dir, checkCatalog,
			cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkCatalog, "catalog", "",
		"Catalog location to compare against (file path, badger://DIR or sqlite://FILE)")
	checkCmd.Flags().BoolVar(&checkWithMetadata, "with-node-metadata", false,
		"Rebuild with node metadata before comparing")
}

// executeCheck runs CheckStructure, or Check when location is set.
func executeCheck(ctx context.Context, svc *docata.Service, dir, location string, stdout, stderr io.Writer) int {
	var err error
	if location == "" {
		err = svc.CheckStructure(ctx, dir)
	} else {
		err = svc.Check(ctx, dir, location)
	}
	if err != nil {
		reportError(ux.NewPrinter(stderr), err)
		return ExitFailure
	}
	fmt.Fprintln(stdout, "ok")
	return ExitSuccess
}
