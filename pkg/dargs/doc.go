// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dargs derives a command-line interface from plain Go structs.
//
// Each exported field of a record struct becomes one flag. The flag name is
// the snake_case field name, the value type is the field type, and struct
// tags add the rest:
//
//	type TrainingArgs struct {
//	    Epochs       int      `help:"Number of passes over the data."`
//	    LearningRate float64  `aliases:"--lr"`
//	    DataPath     string   `aliases:"--data,-d" default:"./data/"`
//	    Cuda         bool     `default:"true"`
//	    Precision    any      `choices:"[32, 16, 8, bf16, tf32]" default:"32"`
//	    Layers       []int    `default:"[1, 2, 3]"`
//	    Checkpoint   *string  `help:"Resume from this checkpoint."`
//	}
//
//	args, err := dargs.Parse[TrainingArgs]()
//
// Field types map onto argument shapes:
//
//   - T, a scalar: string, bool, any int, uint or float kind, time.Duration,
//     url.URL, or a type whose pointer implements encoding.TextUnmarshaler.
//   - *T: optional, nil unless given.
//   - bool and *bool: a switch. --x sets it, --no_x clears it, and --x may
//     take one explicit value such as "false" or "no".
//   - T with a choices tag: the value must be one of the listed YAML
//     literals. With an interface type, literals keep their own type, so
//     "16" selects the int 16 and "bf16" the string.
//   - []T: one or more values after the flag; repeated flags accumulate.
//
// A field without a default that is neither a bool nor a pointer is
// required. Values are taken from the command line first, then from config
// files given with --cfg, then from the field's default.
//
// Struct tags:
//
//	flag:"name"     override the flag name; flag:"-" skips the field
//	aliases:"-a,-b" extra names for the flag
//	help:"..."      help text
//	default:"..."   default value, parsed like command-line input
//	choices:"[...]" allowed values, a YAML flow sequence
//	metavar:"FILE"  value placeholder shown in help
package dargs
