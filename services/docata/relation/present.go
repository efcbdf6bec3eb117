// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package relation

import (
	"encoding/json"
	"fmt"
	"io"
)

// Format selects how a Response is written.
type Format string

const (
	// FormatJSON writes the full response as indented JSON.
	FormatJSON Format = "json"

	// FormatText writes one item id per line.
	FormatText Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatText:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DefaultFormat is the format a command uses when none is given:
// json for deps, text for refs.
func DefaultFormat(k Kind) Format {
	if k == KindRefs {
		return FormatText
	}
	return FormatJSON
}

// Write renders resp to w in the given format.
func Write(w io.Writer, resp *Response, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, resp)
	case FormatText:
		return writeText(w, resp)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

func writeJSON(w io.Writer, resp *Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("write relation json: %w", err)
	}
	return nil
}

func writeText(w io.Writer, resp *Response) error {
	for _, item := range resp.Items {
		if _, err := fmt.Fprintln(w, item.ID); err != nil {
			return fmt.Errorf("write relation text: %w", err)
		}
	}
	return nil
}
