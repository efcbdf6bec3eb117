// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain relative", "docs/a.md", "docs/a.md"},
		{"leading dot", "./docs/a.md", "docs/a.md"},
		{"inner dot", "docs/./a.md", "docs/a.md"},
		{"double slash", "docs//a.md", "docs/a.md"},
		{"trailing slash", "docs/", "docs"},
		{"parent collapses", "docs/x/../a.md", "docs/a.md"},
		{"parent to empty", "a/..", "."},
		{"empty", "", "."},
		{"dot only", ".", "."},
		{"relative keeps leading parent", "../a/./b", "../a/b"},
		{"relative stacks parents", "../../a", "../../a"},
		{"parent after parent", "a/../../b", "../b"},
		{"absolute", "/docs/a.md", "/docs/a.md"},
		{"absolute cannot escape root", "/../docs/a.md", "/docs/a.md"},
		{"absolute root only", "/..", "/"},
		{"absolute collapses", "/docs/x/../../a.md", "/a.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestNormalizePath_CosmeticFormsAgree(t *testing.T) {
	forms := []string{
		"docs/guide/a.md",
		"./docs/guide/a.md",
		"docs/./guide//a.md",
		"docs/other/../guide/a.md",
	}
	for _, form := range forms {
		assert.Equal(t, "docs/guide/a.md", NormalizePath(form), form)
	}
}

func TestNormalizePath_Idempotent(t *testing.T) {
	for _, in := range []string{"../a/./b", "/x/../y", "a//b/", ""} {
		once := NormalizePath(in)
		assert.Equal(t, once, NormalizePath(once), in)
	}
}
