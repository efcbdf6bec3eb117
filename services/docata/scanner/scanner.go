// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scanner extracts catalog records from Markdown documents.
//
// # Description
//
// Scan walks a document root, selects ".md" files that are not excluded,
// and parses their YAML frontmatter in parallel. Each file yields at most one
// record. Any read or parse failure aborts the whole scan.
//
// # Document Format
//
//	---
//	id: runbook-deploy
//	deps: [architecture, oncall]
//	type: runbook
//	domain: platform
//	status: active
//	source_of_truth: git
//	---
//	# Deploy runbook
//
// # Thread Safety
//
// Scan is safe for concurrent use. Files are parsed independently; the only
// synchronization point is collecting results before Scan returns.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
)

// DocumentExt is the extension of files considered documents.
const DocumentExt = ".md"

// Config holds scan configuration.
//
// # Fields
//
//   - Root: Document root directory. Must not be empty.
//   - Exclude: Gitignore-style patterns relative to Root.
//   - Workers: Maximum files parsed concurrently. Must be > 0.
//   - Logger: Optional logger; nil uses slog.Default().
type Config struct {
	Root    string
	Exclude []string
	Workers int
	Logger  *slog.Logger
}

// DefaultConfig returns a Config with one worker per CPU.
func DefaultConfig(root string) Config {
	return Config{
		Root:    root,
		Workers: runtime.NumCPU(),
	}
}

// Validate checks that the Config has valid field values.
func (c Config) Validate() error {
	if c.Root == "" {
		return ErrEmptyRoot
	}
	if c.Workers <= 0 {
		return ErrInvalidMaxWorkers
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Scan parses every document under cfg.Root.
//
// Description:
//
//	Collects candidate files with a directory walk, then parses them with
//	at most cfg.Workers goroutines. The first failure cancels outstanding
//	work and is returned.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	cfg - Scan configuration.
//
// Outputs:
//
//	[]catalog.Record - One record per document with frontmatter, in no
//	particular order.
//	error - Config validation error, walk error, or *ParseFileError.
func Scan(ctx context.Context, cfg Config) ([]catalog.Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("stat document root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, cfg.Root)
	}

	start := time.Now()
	logger := cfg.logger()

	matcher, err := newMatcher(cfg.Root, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	paths, err := collectDocuments(cfg.Root, matcher)
	if err != nil {
		return nil, err
	}

	results := make([]*catalog.Record, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			record, err := ParseFile(path)
			if err != nil {
				return err
			}
			results[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]catalog.Record, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	logger.Debug("scan complete",
		slog.String("root", cfg.Root),
		slog.Int("files", len(paths)),
		slog.Int("records", len(records)),
		slog.Duration("duration", time.Since(start)),
	)
	return records, nil
}

// collectDocuments walks root and returns the paths of non-excluded regular
// ".md" files.
func collectDocuments(root string, m *matcher) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if m.excludesDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || filepath.Ext(path) != DocumentExt {
			return nil
		}
		if m.excludesFile(rel) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
