// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHelp is returned by Parse when -h or --help was given. The help text has
// already been written to the configured output; callers should exit with
// success.
var ErrHelp = errors.New("help requested")

// DeclarationError reports an invalid record declaration: an unsupported field
// type, a colliding flag name, a bad default or choices tag. It is raised
// before any argument is read.
type DeclarationError struct {
	Record string // Go type name of the record, e.g. "TrainingArgs"
	Field  string // Go field name, empty for record-level problems
	Reason string
	Err    error
}

func (e *DeclarationError) Error() string {
	where := e.Record
	if e.Field != "" {
		where += "." + e.Field
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid declaration %s: %s: %v", where, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid declaration %s: %s", where, e.Reason)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// MissingArgsError lists every required flag that no source supplied.
type MissingArgsError struct {
	Flags []string // canonical flag names, in declaration order
}

func (e *MissingArgsError) Error() string {
	if len(e.Flags) == 1 {
		return fmt.Sprintf("missing required argument: %s", e.Flags[0])
	}
	return fmt.Sprintf("missing required arguments: %s", strings.Join(e.Flags, ", "))
}

// ValueError is returned when a raw token cannot be converted to the field's
// declared type or is not one of its choices.
type ValueError struct {
	Record   string
	Field    string
	Flag     string // canonical flag name
	Token    string // the offending raw token
	Expected string // e.g. "int" or "one of {32, 16, 8, bf16, tf32}"
	Source   Source
	Err      error
}

func (e *ValueError) Error() string {
	var b strings.Builder
	if e.Token == "" && e.Err != nil {
		fmt.Fprintf(&b, "%s: %v", e.Flag, e.Err)
	} else {
		fmt.Fprintf(&b, "invalid value %q for %s", e.Token, e.Flag)
		if e.Expected != "" {
			fmt.Fprintf(&b, ": expected %s", e.Expected)
		}
	}
	if e.Source == SourceConfig {
		b.WriteString(" (from config file)")
	} else if e.Source == SourceDefault {
		b.WriteString(" (from default)")
	}
	return b.String()
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// ConfigError reports an unreadable or malformed config file, or a config
// file naming flags that are not declared.
type ConfigError struct {
	Path string
	Line int // 1-based, zero when the problem is not tied to a line
	Err  error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Path == "":
		return fmt.Sprintf("config: %v", e.Err)
	case e.Line > 0:
		return fmt.Sprintf("config %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UnrecognizedArgsError is returned when tokens are left over after every
// declared flag consumed its values.
type UnrecognizedArgsError struct {
	Args []string
}

func (e *UnrecognizedArgsError) Error() string {
	return fmt.Sprintf("unrecognized arguments: %s", strings.Join(e.Args, " "))
}

// FlagConflictError is returned when a boolean flag and its negation are both
// supplied by the same source.
type FlagConflictError struct {
	Flag     string
	Negation string
}

func (e *FlagConflictError) Error() string {
	return fmt.Sprintf("%s and %s are mutually exclusive", e.Flag, e.Negation)
}
