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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is the optional exclusion file read from the document root.
const IgnoreFileName = ".docataignore"

// alwaysExcluded patterns apply regardless of configuration.
var alwaysExcluded = []string{".git/"}

// matcher decides which paths under the root are excluded.
type matcher struct {
	gi *ignore.GitIgnore
}

// newMatcher compiles the configured patterns plus root/.docataignore.
func newMatcher(root string, patterns []string) (*matcher, error) {
	lines := append(append([]string{}, alwaysExcluded...), patterns...)

	ignorePath := filepath.Join(root, IgnoreFileName)
	if _, err := os.Stat(ignorePath); err == nil {
		gi, err := ignore.CompileIgnoreFileAndLines(ignorePath, lines...)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", ignorePath, err)
		}
		return &matcher{gi: gi}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", ignorePath, err)
	}

	return &matcher{gi: ignore.CompileIgnoreLines(lines...)}, nil
}

// excludesDir reports whether a directory (relative to root) is excluded.
// Directory-only patterns such as "drafts/" need the trailing slash.
func (m *matcher) excludesDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	return m.gi.MatchesPath(rel) || m.gi.MatchesPath(rel+"/")
}

// excludesFile reports whether a file (relative to root) is excluded.
func (m *matcher) excludesFile(rel string) bool {
	return m.gi.MatchesPath(filepath.ToSlash(rel))
}
