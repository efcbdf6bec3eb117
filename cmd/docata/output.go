// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pranc1ngpegasus/docata/pkg/ux"
	"github.com/pranc1ngpegasus/docata/services/docata"
	"github.com/pranc1ngpegasus/docata/services/docata/validate"
)

// reportError prints err for a human. Validation findings print the full
// report and drift prints the structural diff.
func reportError(p *ux.Printer, err error) {
	var verr *validate.ValidationError
	var derr *docata.DriftError
	switch {
	case errors.As(err, &verr):
		printReport(p, verr.Report)
	case errors.As(err, &derr):
		printDrift(p, derr)
	default:
		p.Error(err.Error())
	}
}

// printReport renders a validation report. Plain output is exactly
// Report.String().
func printReport(p *ux.Printer, r validate.Report) {
	if !p.Styled() {
		io.WriteString(p.Writer(), r.String())
		return
	}

	p.Title("validation failed:")
	if len(r.DuplicateIDs) > 0 {
		p.Heading(0, fmt.Sprintf("duplicate ids: %d", len(r.DuplicateIDs)))
		for _, d := range r.DuplicateIDs {
			p.Item(1, ux.IconBullet, fmt.Sprintf("%s appears in: %s", p.Code(d.ID), strings.Join(d.Paths, ", ")))
		}
	}
	if len(r.UnresolvedDependencies) > 0 {
		p.Heading(0, fmt.Sprintf("unresolved dependencies: %d", len(r.UnresolvedDependencies)))
		for _, u := range r.UnresolvedDependencies {
			p.Item(1, ux.IconBullet, fmt.Sprintf("%s -> %s %s", p.Code(u.From), p.Code(u.To), p.Muted("(from "+u.Path+")")))
		}
	}
	if len(r.DependencyCycles) > 0 {
		p.Heading(0, fmt.Sprintf("dependency cycles: %d", len(r.DependencyCycles)))
		for _, c := range r.DependencyCycles {
			if len(c.IDs) == 0 {
				continue
			}
			p.Item(1, ux.IconBullet, strings.Join(c.IDs, " -> ")+" -> "+c.IDs[0])
		}
	}
}

// printDrift renders a drift error followed by its diff.
func printDrift(p *ux.Printer, derr *docata.DriftError) {
	p.Error(derr.Error())
	d := derr.Diff
	for _, n := range d.AddedNodes {
		p.Item(1, ux.IconAdded, fmt.Sprintf("node %s %s", p.Code(n.ID), p.Muted("("+n.Path+")")))
	}
	for _, n := range d.RemovedNodes {
		p.Item(1, ux.IconRemoved, fmt.Sprintf("node %s %s", p.Code(n.ID), p.Muted("("+n.Path+")")))
	}
	for _, e := range d.AddedEdges {
		p.Item(1, ux.IconAdded, fmt.Sprintf("edge %s -> %s", p.Code(e.From), p.Code(e.To)))
	}
	for _, e := range d.RemovedEdges {
		p.Item(1, ux.IconRemoved, fmt.Sprintf("edge %s -> %s", p.Code(e.From), p.Code(e.To)))
	}
}
