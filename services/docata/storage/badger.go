// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Badger keys.
var (
	keyCurrentCatalog = []byte("catalog/current")
)

// BadgerConfig holds configuration for a BadgerDB-backed store.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
type BadgerConfig struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal logs.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger

	// GCDiscardRatio is the minimum ratio of discardable data before value
	// log GC runs after a save. Zero disables GC.
	GCDiscardRatio float64
}

// DefaultBadgerConfig returns durable defaults for the directory at path.
func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:           path,
		SyncWrites:     true,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryBadgerConfig returns configuration optimized for testing.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{
		InMemory: true,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
// Badger's informational chatter is demoted to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore keeps the catalog under a single key in BadgerDB.
type BadgerStore struct {
	db       *badger.DB
	location string
	gcRatio  float64
	logger   *slog.Logger
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens a BadgerDB-backed store.
//
// Description:
//
//	Opens the database at cfg.Path, creating the directory if needed, or
//	an in-memory database when cfg.InMemory is set.
//
// Inputs:
//
//	location - Location string reported by Location().
//	cfg - Database configuration.
//
// Outputs:
//
//	*BadgerStore - The opened store. Caller must call Close() when done.
//	error - *StorageError if the path is missing or the database cannot be
//	opened.
//
// Thread Safety: The returned store is safe for concurrent use.
func OpenBadger(location string, cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, &StorageError{Op: "open", Location: location, Err: ErrEmptyLocation}
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, &StorageError{Op: "open", Location: location, Err: err}
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &StorageError{Op: "open", Location: location, Err: err}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgerStore{
		db:       db,
		location: location,
		gcRatio:  cfg.GCDiscardRatio,
		logger:   logger,
	}, nil
}

// Save replaces the stored catalog in one read-write transaction.
func (s *BadgerStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyCurrentCatalog, data)
	})
	if err != nil {
		return &StorageError{Op: "save", Location: s.location, Err: err}
	}

	s.runGC()
	return nil
}

// Load returns the stored catalog bytes.
func (s *BadgerStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyCurrentCatalog)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &StorageError{Op: "load", Location: s.location, Err: ErrCatalogNotFound}
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Location: s.location, Err: err}
	}
	return data, nil
}

// Location returns the location the store was opened with.
func (s *BadgerStore) Location() string {
	return s.location
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// runGC reclaims value log space left by previous catalogs.
func (s *BadgerStore) runGC() {
	if s.gcRatio <= 0 || s.db.Opts().InMemory {
		return
	}
	// RunValueLogGC returns ErrNoRewrite when there is nothing to reclaim.
	err := s.db.RunValueLogGC(s.gcRatio)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		s.logger.Warn("badger value log GC error", slog.String("error", err.Error()))
	}
}
