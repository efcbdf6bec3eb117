// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux renders human-facing CLI output.
//
// A Printer styles its output with lipgloss only when it writes to a
// terminal. Redirected output is plain text, so scripts and CI logs see
// exactly the messages without escape sequences.
package ux

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Brand colors.
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // highlights, success
	ColorTealPrimary = lipgloss.Color("#20B9B4") // headings
	ColorSlate       = lipgloss.Color("#2C4A54") // muted text
	ColorWarning     = lipgloss.Color("#F4D03F")
	ColorError       = lipgloss.Color("#E74C3C")
)

// Icon is a status marker placed before a message.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconBullet  Icon = "•"
	IconAdded   Icon = "+"
	IconRemoved Icon = "-"
)

// styles holds the lipgloss styles bound to one renderer.
type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	code    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(ColorTealBright),
		heading: r.NewStyle().Foreground(ColorTealPrimary),
		muted:   r.NewStyle().Foreground(ColorSlate),
		success: r.NewStyle().Foreground(ColorTealBright),
		warning: r.NewStyle().Foreground(ColorWarning),
		err:     r.NewStyle().Bold(true).Foreground(ColorError),
		code:    r.NewStyle().Bold(true),
	}
}

// Printer writes status messages to one destination.
//
// Thread Safety: not safe for concurrent use.
type Printer struct {
	w      io.Writer
	styled bool
	st     styles
}

// NewPrinter returns a Printer that styles its output when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterStyled(w, IsTerminal(w))
}

// NewPrinterStyled returns a Printer with styling forced on or off.
func NewPrinterStyled(w io.Writer, styled bool) *Printer {
	return &Printer{w: w, styled: styled, st: newStyles(lipgloss.NewRenderer(w))}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Styled reports whether the printer emits styled output.
func (p *Printer) Styled() bool {
	return p.styled
}

// Writer returns the destination.
func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Title prints a bold title line.
func (p *Printer) Title(text string) {
	fmt.Fprintln(p.w, p.render(p.st.title, text))
}

// Success prints text with a check mark when styled, or as is.
func (p *Printer) Success(text string) {
	if !p.styled {
		fmt.Fprintln(p.w, text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.st.success.Render(string(IconSuccess)), p.st.success.Render(text))
}

// Warning prints a warning line.
func (p *Printer) Warning(text string) {
	if !p.styled {
		fmt.Fprintf(p.w, "warning: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.st.warning.Render(string(IconWarning)), p.st.warning.Render(text))
}

// Error prints an error line.
func (p *Printer) Error(text string) {
	if !p.styled {
		fmt.Fprintf(p.w, "error: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.st.err.Render(string(IconError)), p.st.err.Render(text))
}

// Heading prints a section heading at the given depth.
func (p *Printer) Heading(depth int, text string) {
	fmt.Fprintf(p.w, "%s%s %s\n", indent(depth), p.render(p.st.muted, "-"), p.render(p.st.heading, text))
}

// Item prints a list entry at the given depth, prefixed with icon.
func (p *Printer) Item(depth int, icon Icon, text string) {
	marker := string(icon)
	if p.styled {
		switch icon {
		case IconAdded:
			marker = p.st.success.Render(marker)
		case IconRemoved:
			marker = p.st.err.Render(marker)
		default:
			marker = p.st.muted.Render(marker)
		}
	}
	fmt.Fprintf(p.w, "%s%s %s\n", indent(depth), marker, text)
}

// Code renders an identifier for inline use: bold when styled, backquoted
// otherwise.
func (p *Printer) Code(text string) string {
	if !p.styled {
		return "`" + text + "`"
	}
	return p.st.code.Render(text)
}

// Muted renders secondary text for inline use.
func (p *Printer) Muted(text string) string {
	return p.render(p.st.muted, text)
}

func indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("  ", depth)
}
