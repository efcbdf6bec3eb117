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
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the catalog in a single JSON file.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store for the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes data to a temp file in the target directory and renames it
// over the target, so readers never observe a partial catalog.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &StorageError{Op: "save", Location: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "save", Location: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &StorageError{Op: "save", Location: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "save", Location: s.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &StorageError{Op: "save", Location: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &StorageError{Op: "save", Location: s.path, Err: err}
	}
	return nil
}

// Load reads the file.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &StorageError{Op: "load", Location: s.path, Err: fmt.Errorf("%w: %v", ErrCatalogNotFound, err)}
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Location: s.path, Err: err}
	}
	return data, nil
}

// Location returns the file path.
func (s *FileStore) Location() string {
	return s.path
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
