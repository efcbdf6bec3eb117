// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command docata catalogs Markdown documents and the dependencies declared
// in their YAML frontmatter.
//
// Usage:
//
//	docata build [DIR] [CATALOG]      # scan, validate, write the catalog
//	docata check [DIR] --catalog X    # fail if the catalog is stale
//	docata deps ID [CATALOG]          # what ID depends on
//	docata refs ID [CATALOG]          # what depends on ID
//	docata serve --addr :8080         # HTTP API
//	docata mcp                        # MCP server on stdio
//
// Exit codes: 0 success, 1 failure, 2 bad arguments or configuration.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pranc1ngpegasus/docata/pkg/ux"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	exitCode = ExitSuccess
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ux.NewPrinter(stderr).Error(err.Error())
		return ExitUsage
	}
	return exitCode
}
