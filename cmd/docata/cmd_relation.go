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
	"io"

	"github.com/spf13/cobra"

	"github.com/pranc1ngpegasus/docata/pkg/ux"
	"github.com/pranc1ngpegasus/docata/services/docata"
	"github.com/pranc1ngpegasus/docata/services/docata/relation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// Shared by deps and refs
	relationFormat string
	relationStrict bool
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var depsCmd = &cobra.Command{
	Use:   "deps ID [CATALOG]",
	Short: "List the documents ID depends on",
	Long: `List the documents that ID declares in its deps, sorted by id.

Dependencies with no document in the catalog are listed with
"resolved": false and named again in meta.missing_nodes.

Output defaults to JSON. An ID that is not in the catalog yields an empty
result unless --strict is given.

Examples:
  docata deps adr-001
  docata deps adr-001 docs/catalog.json --format text
  docata deps adr-001 --strict`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		runRelation(cmd, args, relation.KindDeps)
	},
}

var refsCmd = &cobra.Command{
	Use:   "refs ID [CATALOG]",
	Short: "List the documents that depend on ID",
	Long: `List the documents whose deps name ID, sorted by id.

Output defaults to one id per line. An ID that is not in the catalog
yields an empty result unless --strict is given.

Examples:
  docata refs glossary
  docata refs glossary --format json`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		runRelation(cmd, args, relation.KindRefs)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{depsCmd, refsCmd} {
		cmd.Flags().StringVar(&relationFormat, "format", "",
			"Output format: json or text (default json for deps, text for refs)")
		cmd.Flags().BoolVar(&relationStrict, "strict", false,
			"Fail when ID has no document in the catalog")
	}
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runRelation(cmd *cobra.Command, args []string, kind relation.Kind) {
	location := argOr(args, 1, appConfig.Catalog.Location)
	exitCode = executeRelation(cmd.Context(), newService(false), relationOptions{
		Kind:     kind,
		ID:       args[0],
		Location: location,
		Format:   relationFormat,
		Strict:   relationStrict,
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

type relationOptions struct {
	Kind     relation.Kind
	ID       string
	Location string
	Format   string // empty selects the kind's default
	Strict   bool
}

// executeRelation answers a deps or refs query and writes the response.
func executeRelation(ctx context.Context, svc *docata.Service, opts relationOptions, stdout, stderr io.Writer) int {
	p := ux.NewPrinter(stderr)

	format := relation.DefaultFormat(opts.Kind)
	if opts.Format != "" {
		parsed, err := relation.ParseFormat(opts.Format)
		if err != nil {
			p.Error(err.Error())
			return ExitUsage
		}
		format = parsed
	}

	resp, err := svc.QueryRelation(ctx, opts.ID, opts.Location, opts.Kind, opts.Strict)
	if err != nil {
		reportError(p, err)
		return ExitFailure
	}
	if err := relation.Write(stdout, resp, format); err != nil {
		p.Error(err.Error())
		return ExitFailure
	}
	return ExitSuccess
}
