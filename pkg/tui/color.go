// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	ColorReset = "\x1b[0m"
	ColorBold  = "\x1b[1m"
	ColorCyan  = "\x1b[36m"
	ColorDim   = "\x1b[90m"
)

// Colorizer wraps text in ANSI escapes when Enabled.
type Colorizer struct {
	Enabled bool
}

// NewColorizer returns an enabled Colorizer unless NO_COLOR is set or TERM
// is empty or dumb.
func NewColorizer(enabled bool) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

// ForWriter colors only when w is a terminal.
func ForWriter(w io.Writer) Colorizer {
	f, ok := w.(interface{ Fd() uintptr })
	return NewColorizer(ok && term.IsTerminal(int(f.Fd())))
}

func (c Colorizer) Wrap(code, text string) string {
	if !c.Enabled || code == "" {
		return text
	}
	return code + text + ColorReset
}
