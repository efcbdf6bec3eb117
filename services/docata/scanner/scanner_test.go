// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
)

func writeDoc(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func scanIDs(t *testing.T, cfg Config) []string {
	t.Helper()
	records, err := Scan(context.Background(), cfg)
	require.NoError(t, err)
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	sort.Strings(ids)
	return ids
}

func TestParseFile_Full(t *testing.T) {
	root := t.TempDir()
	path := writeDoc(t, root, "a.md", `---
id: a
deps:
  - b
  - c
type: adr
domain: payments
status: accepted
source_of_truth: git
---
# Body
`)

	record, err := ParseFile(path)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "a", record.ID)
	assert.Equal(t, []string{"b", "c"}, record.Deps)
	assert.Equal(t, path, record.Path)
	assert.Equal(t, "adr", *record.Metadata.Kind)
	assert.Equal(t, "payments", *record.Metadata.Domain)
	assert.Equal(t, "accepted", *record.Metadata.Status)
	assert.Equal(t, "git", *record.Metadata.SourceOfTruth)
}

func TestParseFile_DepsDefaultEmpty(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "a.md", "---\nid: a\n---\n")
	record, err := ParseFile(path)
	require.NoError(t, err)
	assert.NotNil(t, record.Deps)
	assert.Empty(t, record.Deps)
	assert.True(t, record.Metadata.IsZero())
}

func TestParseFile_NoFenceIsSkipped(t *testing.T) {
	root := t.TempDir()
	for name, content := range map[string]string{
		"plain.md": "# Title\nid: x\n",
		"empty.md": "",
		"late.md":  "\n---\nid: x\n---\n",
	} {
		record, err := ParseFile(writeDoc(t, root, name, content))
		require.NoError(t, err, name)
		assert.Nil(t, record, name)
	}
}

func TestParseFile_FenceWithWhitespace(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "a.md", "---  \r\nid: a\r\n---\r\n")
	record, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a", record.ID)
}

func TestParseFile_UnterminatedFrontmatter(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "a.md", "---\nid: a\ndeps: [b]")
	record, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, record.Deps)
}

func TestParseFile_MissingID(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "a.md", "---\ndeps: [b]\n---\n")
	_, err := ParseFile(path)

	var perr *ParseFileError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, path, perr.FilePath)
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestParseFile_MalformedYAML(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "a.md", "---\nid: [unterminated\n---\n")
	_, err := ParseFile(path)
	assert.ErrorIs(t, err, ErrInvalidFrontmatter)
}

func TestParseFile_TooLarge(t *testing.T) {
	var b strings.Builder
	b.WriteString("---\nid: big\n")
	for b.Len() < MaxFrontmatterBytes+100 {
		b.WriteString("# padding padding padding padding padding padding\n")
	}
	b.WriteString("---\n")

	path := writeDoc(t, t.TempDir(), "big.md", b.String())
	_, err := ParseFile(path)
	assert.ErrorIs(t, err, ErrFrontmatterTooLarge)
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.md"))
	var perr *ParseFileError
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScan_SelectsMarkdownRecursively(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "---\nid: a\ndeps: [b]\n---\n")
	writeDoc(t, root, "nested/deep/b.md", "---\nid: b\n---\n")
	writeDoc(t, root, "notes.txt", "---\nid: txt\n---\n")
	writeDoc(t, root, "README.MD", "---\nid: upper\n---\n")
	writeDoc(t, root, "plain.md", "no frontmatter\n")

	cfg := DefaultConfig(root)
	assert.Equal(t, []string{"a", "b"}, scanIDs(t, cfg))
}

func TestScan_RecordsWalkPaths(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "nested/b.md", "---\nid: b\n---\n")

	records, err := Scan(context.Background(), DefaultConfig(root))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(root, "nested", "b.md"), records[0].Path)
}

func TestScan_Exclusions(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "keep.md", "---\nid: keep\n---\n")
	writeDoc(t, root, "drafts/wip.md", "---\nid: wip\n---\n")
	writeDoc(t, root, "secret.md", "---\nid: secret\n---\n")
	writeDoc(t, root, "archive/old.md", "---\nid: old\n---\n")
	writeDoc(t, root, ".git/x.md", "---\nid: git\n---\n")
	writeDoc(t, root, IgnoreFileName, "archive/\n")

	cfg := DefaultConfig(root)
	cfg.Exclude = []string{"drafts/", "secret.md"}
	assert.Equal(t, []string{"keep"}, scanIDs(t, cfg))
}

func TestScan_ParseErrorIsFatal(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		writeDoc(t, root, filepath.Join("ok", string(rune('a'+i))+".md"), "---\nid: x\n---\n")
	}
	bad := writeDoc(t, root, "bad.md", "---\ndeps: []\n---\n")

	cfg := DefaultConfig(root)
	cfg.Workers = 2
	records, err := Scan(context.Background(), cfg)
	assert.Nil(t, records)

	var perr *ParseFileError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, bad, perr.FilePath)
}

func TestScan_ConfigValidation(t *testing.T) {
	_, err := Scan(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrEmptyRoot)

	_, err = Scan(context.Background(), Config{Root: t.TempDir()})
	assert.ErrorIs(t, err, ErrInvalidMaxWorkers)

	file := writeDoc(t, t.TempDir(), "a.md", "")
	_, err = Scan(context.Background(), DefaultConfig(file))
	assert.ErrorIs(t, err, ErrRootNotDirectory)

	_, err = Scan(context.Background(), DefaultConfig(filepath.Join(t.TempDir(), "missing")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScan_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.md", "---\nid: a\n---\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, DefaultConfig(root))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_EmptyRoot(t *testing.T) {
	records, err := Scan(context.Background(), DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, catalog.Build(records).Nodes)
}
