// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package storage persists canonical catalog bytes.
//
// # Backends
//
// The backend is chosen from the catalog location:
//
//	docs/catalog.json         JSON file (atomic temp-file + rename writes)
//	badger://.docata/db       BadgerDB directory
//	sqlite://.docata/cat.db   SQLite database file
//
// Every backend stores the exact bytes it was given. The consistency check
// compares those bytes against a fresh build, so a backend must never
// re-encode on the way in or out.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Location schemes.
const (
	SchemeBadger = "badger://"
	SchemeSQLite = "sqlite://"
)

// Sentinel errors for catalog storage.
var (
	// ErrCatalogNotFound indicates no catalog has been saved at the location.
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrEmptyLocation indicates an empty catalog location.
	ErrEmptyLocation = errors.New("catalog location must not be empty")
)

// StorageError wraps storage-related errors with context.
type StorageError struct {
	Op       string // Operation that failed
	Location string // Catalog location
	Err      error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Location, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store persists and retrieves canonical catalog bytes.
//
// # Thread Safety
//
// Implementations are safe for concurrent use.
type Store interface {
	// Save replaces the stored catalog with data.
	Save(ctx context.Context, data []byte) error

	// Load returns the stored catalog bytes exactly as saved.
	// Returns an error wrapping ErrCatalogNotFound if nothing is stored.
	Load(ctx context.Context) ([]byte, error)

	// Location returns the location the store was opened with.
	Location() string

	// Close releases resources held by the store.
	Close() error
}

// Options configures Open.
type Options struct {
	// Logger receives backend diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Option is a functional option for Open.
type Option func(*Options)

// WithLogger sets the backend logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Open returns the store for a catalog location.
//
// Description:
//
//	"badger://DIR" opens a BadgerDB store, "sqlite://FILE" opens a SQLite
//	store, and anything else is treated as a JSON file path. Opening a
//	location does not require a catalog to exist there yet.
//
// Outputs:
//
//	Store - The opened store. Caller must call Close() when done.
//	error - ErrEmptyLocation, or a *StorageError from the backend.
func Open(ctx context.Context, location string, opts ...Option) (Store, error) {
	options := Options{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}

	switch {
	case location == "":
		return nil, ErrEmptyLocation
	case strings.HasPrefix(location, SchemeBadger):
		return OpenBadger(location, BadgerConfig{
			Path:       strings.TrimPrefix(location, SchemeBadger),
			SyncWrites: true,
			Logger:     options.Logger,
		})
	case strings.HasPrefix(location, SchemeSQLite):
		return OpenSQLite(ctx, location, strings.TrimPrefix(location, SchemeSQLite))
	default:
		return NewFileStore(location), nil
	}
}

// LoadFrom opens location, loads its bytes and closes the store.
//
// A badger or sqlite location that does not exist yields ErrCatalogNotFound
// without being created.
func LoadFrom(ctx context.Context, location string, opts ...Option) ([]byte, error) {
	if path := databasePath(location); path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, &StorageError{Op: "load", Location: location, Err: ErrCatalogNotFound}
		}
	}
	store, err := Open(ctx, location, opts...)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load(ctx)
}

// SaveTo opens location, saves data and closes the store.
func SaveTo(ctx context.Context, location string, data []byte, opts ...Option) (err error) {
	store, err := Open(ctx, location, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return store.Save(ctx, data)
}

// databasePath returns the on-disk path of a badger or sqlite location, or
// "" for file locations.
func databasePath(location string) string {
	for _, scheme := range []string{SchemeBadger, SchemeSQLite} {
		if path, ok := strings.CutPrefix(location, scheme); ok {
			return path
		}
	}
	return ""
}
