// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"fmt"
	"io"
	"strings"

	"github.com/huandu/xstrings"
	"github.com/yeetrun/dargs/pkg/tui"
)

// maxFlagColumn caps the width of the flag column; longer entries push their
// help text onto the next line.
const maxFlagColumn = 44

type helpRow struct {
	left, right string
}

// metavar describes the values a field takes, e.g. "INT",
// "{32,16,8,bf16,tf32}" or "INT [INT ...]".
func (s *argSpec) metavar() string {
	var one string
	switch {
	case s.typ.Shape == ShapeBool:
		return ""
	case s.meta != "":
		one = s.meta
	case s.typ.Choices != nil:
		one = s.typ.Choices.metavar()
	default:
		label := typeLabel(s.typ.Elem)
		one = strings.ToUpper(label[strings.LastIndex(label, ".")+1:])
	}
	if s.typ.isList() {
		return one + " [" + one + " ...]"
	}
	return one
}

func (s *argSpec) helpRow() helpRow {
	names := append([]string{s.flag}, s.aliases...)
	if s.negation != "" {
		names = append(names, s.negation)
	}
	left := strings.Join(names, ", ")
	if mv := s.metavar(); mv != "" {
		left += " " + mv
	}

	right := s.help
	switch {
	case s.required:
		right = strings.TrimSpace(right + " (required)")
	case s.defText != "":
		right = strings.TrimSpace(fmt.Sprintf("%s (default: %s)", right, s.defText))
	}
	return helpRow{left: left, right: right}
}

func sectionTitle(rec *record) string {
	name := rec.typ.Name()
	if name == "" {
		return "OPTIONS"
	}
	return strings.ToUpper(strings.ReplaceAll(xstrings.ToSnakeCase(name), "_", " "))
}

// usage renders the one-line synopsis.
func (p *Parser) usage() string {
	var b strings.Builder
	b.WriteString(p.opts.program)
	for _, s := range p.specs {
		if !s.required {
			continue
		}
		b.WriteString(" " + s.flag)
		if mv := s.metavar(); mv != "" {
			b.WriteString(" " + mv)
		}
	}
	b.WriteString(" [OPTIONS]")
	return b.String()
}

// Help returns the help text without color.
func (p *Parser) Help() string {
	return p.renderHelp(tui.Colorizer{})
}

// WriteHelp writes the help text to w, colored when w is a terminal.
func (p *Parser) WriteHelp(w io.Writer) error {
	_, err := io.WriteString(w, p.renderHelp(tui.ForWriter(w)))
	return err
}

func (p *Parser) renderHelp(c tui.Colorizer) string {
	type section struct {
		title string
		rows  []helpRow
	}
	var sections []section
	for _, rec := range p.records {
		sec := section{title: sectionTitle(rec)}
		for _, s := range rec.specs {
			sec.rows = append(sec.rows, s.helpRow())
		}
		sections = append(sections, sec)
	}
	general := section{title: "GENERAL", rows: []helpRow{{left: "-h, --help", right: "Show this help message and exit"}}}
	if p.opts.configFlag != "" {
		general.rows = append(general.rows, helpRow{
			left:  p.opts.configFlag + " FILE",
			right: "Read arguments from FILE; may be repeated, later files win",
		})
	}
	sections = append(sections, general)

	width := 0
	for _, sec := range sections {
		for _, r := range sec.rows {
			if n := len(r.left); n > width && n <= maxFlagColumn {
				width = n
			}
		}
	}

	var b strings.Builder
	b.WriteString(c.Wrap(tui.ColorBold, "USAGE:") + "\n")
	fmt.Fprintf(&b, "    %s\n\n", p.usage())
	if p.opts.description != "" {
		b.WriteString(c.Wrap(tui.ColorDim, p.opts.description))
		b.WriteString("\n\n")
	}
	for i, sec := range sections {
		if len(sec.rows) == 0 {
			continue
		}
		b.WriteString(c.Wrap(tui.ColorBold, sec.title+":") + "\n")
		for _, r := range sec.rows {
			left := c.Wrap(tui.ColorCyan, fmt.Sprintf("%-*s", width, r.left))
			switch {
			case r.right == "":
				fmt.Fprintf(&b, "    %s\n", c.Wrap(tui.ColorCyan, r.left))
			case len(r.left) > width:
				fmt.Fprintf(&b, "    %s\n    %*s %s\n", left, width, "", r.right)
			default:
				fmt.Fprintf(&b, "    %s %s\n", left, r.right)
			}
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
