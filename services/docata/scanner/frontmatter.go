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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pranc1ngpegasus/docata/services/docata/catalog"
)

// MaxFrontmatterBytes caps the YAML block read from a single document.
const MaxFrontmatterBytes = 32000

const fence = "---"

// frontmatter is the YAML shape of a document header.
type frontmatter struct {
	ID            *string  `yaml:"id"`
	Deps          []string `yaml:"deps"`
	Type          *string  `yaml:"type"`
	Domain        *string  `yaml:"domain"`
	Status        *string  `yaml:"status"`
	SourceOfTruth *string  `yaml:"source_of_truth"`
}

// ParseFile extracts the record declared by one document.
//
// Description:
//
//	A document declares a record when its first line is "---". The YAML
//	block runs until the next "---" line or end of file. Documents without
//	an opening fence are not records and yield (nil, nil).
//
// Inputs:
//
//	path - Path of the document. Recorded verbatim on the record.
//
// Outputs:
//
//	*catalog.Record - The record, or nil if the document has no frontmatter.
//	error - *ParseFileError on I/O failure, oversized or malformed
//	frontmatter, or a missing id.
func ParseFile(path string) (*catalog.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseFileError{FilePath: path, Err: err}
	}
	defer f.Close()

	record, err := parse(f, path)
	if err != nil {
		return nil, &ParseFileError{FilePath: path, Err: err}
	}
	return record, nil
}

func parse(r io.Reader, path string) (*catalog.Record, error) {
	reader := bufio.NewReader(r)

	first, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if strings.TrimSpace(first) != fence {
		return nil, nil
	}

	var yamlBuf strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line == "" || strings.TrimSpace(line) == fence {
			break
		}

		yamlBuf.WriteString(line)
		if yamlBuf.Len() > MaxFrontmatterBytes {
			return nil, ErrFrontmatterTooLarge
		}
		if err != nil {
			break
		}
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(yamlBuf.String()), &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	if fm.ID == nil {
		return nil, ErrMissingID
	}

	deps := fm.Deps
	if deps == nil {
		deps = []string{}
	}

	return &catalog.Record{
		ID:   *fm.ID,
		Deps: deps,
		Path: path,
		Metadata: catalog.Metadata{
			Kind:          fm.Type,
			Domain:        fm.Domain,
			Status:        fm.Status,
			SourceOfTruth: fm.SourceOfTruth,
		},
	}, nil
}
