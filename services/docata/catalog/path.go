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
	"path/filepath"
	"strings"
)

// NormalizePath lexically normalizes a document path.
//
// Description:
//
//	Drops "." segments and collapses ".." against segments already
//	accumulated. A rooted path never climbs above its root, so leading ".."
//	segments are discarded there; a relative path keeps them. Any volume
//	prefix (drive letter or UNC share on Windows) is preserved. Segments are
//	joined with "/" and an empty result becomes ".".
//
//	The filesystem is never consulted.
//
// Inputs:
//
//	p - Raw path as produced by the scanner.
//
// Outputs:
//
//	string - Normalized path.
//
// Examples:
//
//	NormalizePath("./docs//a/../b.md") == "docs/b.md"
//	NormalizePath("/../docs/a.md")     == "/docs/a.md"
//	NormalizePath("../a/./b")          == "../a/b"
//	NormalizePath("a/..")              == "."
func NormalizePath(p string) string {
	volume := filepath.VolumeName(p)
	rest := filepath.ToSlash(p[len(volume):])
	rooted := strings.HasPrefix(rest, "/")

	segments := make([]string, 0, strings.Count(rest, "/")+1)
	for _, segment := range strings.Split(rest, "/") {
		switch segment {
		case "", ".":
			continue
		case "..":
			if n := len(segments); n > 0 && segments[n-1] != ".." {
				segments = segments[:n-1]
			} else if !rooted {
				segments = append(segments, segment)
			}
		default:
			segments = append(segments, segment)
		}
	}

	var b strings.Builder
	b.WriteString(filepath.ToSlash(volume))
	if rooted {
		b.WriteByte('/')
	}
	b.WriteString(strings.Join(segments, "/"))

	if b.Len() == 0 {
		return "."
	}
	return b.String()
}
