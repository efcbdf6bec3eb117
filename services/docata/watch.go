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
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pranc1ngpegasus/docata/services/docata/scanner"
)

// BuildHandler is called after every build started by a Watcher.
// Exactly one of result and err is non-nil.
type BuildHandler func(result *BuildResult, err error)

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Debounce is how long the tree must be quiet before a rebuild.
	// Default: 200ms
	Debounce time.Duration

	// OnBuild receives the outcome of each build. Optional.
	OnBuild BuildHandler
}

// DefaultWatchOptions returns sensible defaults.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{Debounce: 200 * time.Millisecond}
}

// Watcher rebuilds the catalog whenever documents under a root change.
//
// # Description
//
// Every rebuild is a full WriteCatalog of the root; nothing is updated
// incrementally. Events are debounced so a burst of saves produces one
// rebuild. Only changes that can affect the catalog trigger a rebuild:
// Markdown files, the ignore file, and directory creation, removal or
// rename. Writes to the catalog file itself are therefore ignored.
//
// # Thread Safety
//
// Run must be called at most once. OnBuild is called from Run's goroutine.
type Watcher struct {
	svc      *Service
	root     string
	location string
	opts     WatchOptions
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for root that writes to location.
func NewWatcher(svc *Service, root, location string, opts WatchOptions) (*Watcher, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultWatchOptions().Debounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{svc: svc, root: root, location: location, opts: opts, watcher: fw}, nil
}

// Run builds once, then rebuilds on every debounced change until ctx is
// cancelled.
//
// Outputs:
//
//	error - nil when ctx is cancelled, or an error if the root cannot be
//	watched. Build failures are reported to OnBuild and do not stop Run.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.addRecursive(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}

	w.rebuild(ctx)

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := w.addRecursive(event.Name); err != nil {
					w.svc.logger.Warn("watch new directory failed",
						slog.String("path", event.Name),
						slog.String("error", err.Error()),
					)
				}
			}
			if !w.relevant(event) {
				continue
			}
			w.svc.logger.Debug("document change", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.opts.Debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.svc.logger.Warn("watcher error", slog.String("error", err.Error()))

		case <-timerC:
			timer = nil
			timerC = nil
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	result, err := w.svc.WriteCatalog(ctx, w.root, w.location)
	switch {
	case err == nil, ctx.Err() != nil:
	case IsUserError(err):
		w.svc.logger.Info("rebuild rejected", slog.String("error", err.Error()))
	default:
		w.svc.logger.Warn("rebuild failed", slog.String("error", err.Error()))
	}
	if w.opts.OnBuild != nil {
		w.opts.OnBuild(result, err)
	}
}

// relevant reports whether event can change the catalog.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if filepath.Ext(base) == scanner.DocumentExt || base == scanner.IgnoreFileName {
		return true
	}
	// A removed or renamed directory takes its documents with it.
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return slices.Contains(w.watcher.WatchList(), event.Name)
	}
	return event.Has(fsnotify.Create) && isDir(event.Name)
}

// addRecursive adds a directory and all subdirectories to the watch list.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
