// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli turns dargs errors into what a command-line program shows its
// user and the status it exits with.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/yeetrun/dargs/pkg/dargs"
)

// Exit statuses, following sysexits(3) where one applies.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitSoftware = 70 // invalid record declarations
	ExitConfig   = 78
)

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	var (
		decl     *dargs.DeclarationError
		cfg      *dargs.ConfigError
		missing  *dargs.MissingArgsError
		value    *dargs.ValueError
		unknown  *dargs.UnrecognizedArgsError
		conflict *dargs.FlagConflictError
	)
	switch {
	case err == nil, errors.Is(err, dargs.ErrHelp):
		return ExitOK
	case errors.As(err, &decl):
		return ExitSoftware
	case errors.As(err, &value):
		// Checked before config: a bad value read from a file is still a
		// usage error.
		return ExitUsage
	case errors.As(err, &cfg):
		return ExitConfig
	case errors.As(err, &missing), errors.As(err, &unknown), errors.As(err, &conflict):
		return ExitUsage
	}
	return ExitFailure
}

// Report writes a description of err to w. It writes nothing for nil or
// dargs.ErrHelp.
func Report(w io.Writer, prog string, err error) {
	if err == nil || errors.Is(err, dargs.ErrHelp) {
		return
	}
	label := color.New(color.FgRed, color.Bold).Sprint("error:")
	fmt.Fprintf(w, "%s: %s %v\n", prog, label, err)

	var missing *dargs.MissingArgsError
	if errors.As(err, &missing) && len(missing.Flags) > 1 {
		for _, f := range missing.Flags {
			fmt.Fprintf(w, "  %s\n", color.YellowString(f))
		}
	}
	if ExitCode(err) == ExitUsage {
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", prog)
	}
}

// Exit reports err on stderr and exits with ExitCode(err).
func Exit(err error) {
	Report(os.Stderr, progName(), err)
	os.Exit(ExitCode(err))
}

// Must returns v, or exits the process if err is non-nil. It is meant to
// wrap dargs.Parse in main.
func Must[T any](v *T, err error) *T {
	if err != nil {
		Exit(err)
	}
	return v
}

// Must2 is Must for two records.
func Must2[A, B any](a *A, b *B, err error) (*A, *B) {
	if err != nil {
		Exit(err)
	}
	return a, b
}

func progName() string {
	return filepath.Base(os.Args[0])
}
