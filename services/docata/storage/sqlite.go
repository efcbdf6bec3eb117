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
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
)

// sqliteSchema holds the canonical bytes in catalog_blob and a relational
// projection in nodes and edges for ad-hoc SQL. Only the blob is read back.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS catalog_blob (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	body BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	id              TEXT NOT NULL,
	path            TEXT NOT NULL,
	kind            TEXT,
	domain          TEXT,
	status          TEXT,
	source_of_truth TEXT
);
CREATE TABLE IF NOT EXISTS edges (
	from_id TEXT NOT NULL,
	to_id   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_id);
`

// SQLiteStore keeps the catalog in a SQLite database file.
type SQLiteStore struct {
	db       *sql.DB
	location string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path and ensures
// the schema exists.
func OpenSQLite(ctx context.Context, location, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, &StorageError{Op: "open", Location: location, Err: ErrEmptyLocation}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, &StorageError{Op: "open", Location: location, Err: err}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Location: location, Err: err}
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Location: location, Err: fmt.Errorf("create schema: %w", err)}
	}
	return &SQLiteStore{db: db, location: location}, nil
}

// Save replaces the blob and rebuilds the projection in one transaction.
// data must be a valid catalog document.
func (s *SQLiteStore) Save(ctx context.Context, data []byte) (err error) {
	c, err := catalog.Decode(data)
	if err != nil {
		return &StorageError{Op: "save", Location: s.location, Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "save", Location: s.location, Err: err}
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = replaceCatalog(ctx, tx, data, c); err != nil {
		return &StorageError{Op: "save", Location: s.location, Err: err}
	}
	if err = tx.Commit(); err != nil {
		return &StorageError{Op: "save", Location: s.location, Err: err}
	}
	return nil
}

func replaceCatalog(ctx context.Context, tx *sql.Tx, data []byte, c *catalog.Catalog) error {
	for _, stmt := range []string{"DELETE FROM catalog_blob", "DELETE FROM nodes", "DELETE FROM edges"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO catalog_blob (id, body) VALUES (1, ?)", data); err != nil {
		return err
	}

	insertNode, err := tx.PrepareContext(ctx,
		"INSERT INTO nodes (id, path, kind, domain, status, source_of_truth) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertNode.Close()
	for _, n := range c.Nodes {
		if _, err := insertNode.ExecContext(ctx, n.ID, n.Path,
			nullable(n.Kind), nullable(n.Domain), nullable(n.Status), nullable(n.SourceOfTruth)); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}

	insertEdge, err := tx.PrepareContext(ctx, "INSERT INTO edges (from_id, to_id) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer insertEdge.Close()
	for _, e := range c.Edges {
		if _, err := insertEdge.ExecContext(ctx, e.From, e.To); err != nil {
			return fmt.Errorf("insert edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Load returns the stored blob.
func (s *SQLiteStore) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT body FROM catalog_blob WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &StorageError{Op: "load", Location: s.location, Err: ErrCatalogNotFound}
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Location: s.location, Err: err}
	}
	return data, nil
}

// Location returns the location the store was opened with.
func (s *SQLiteStore) Location() string {
	return s.location
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
