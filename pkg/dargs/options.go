// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"tailscale.com/types/logger"
)

// DefaultConfigFlag names the flag that reads arguments from config files.
const DefaultConfigFlag = "--cfg"

type options struct {
	configFlag    string
	defaultConfig string
	program       string
	description   string
	out           io.Writer
	logf          logger.Logf
}

func defaultOptions() options {
	return options{
		configFlag: DefaultConfigFlag,
		program:    filepath.Base(os.Args[0]),
		out:        os.Stdout,
		logf:       logger.Discard,
	}
}

// Option configures a Parser.
type Option func(*options)

// WithConfigFlag renames the config-file flag. An empty name disables config
// files altogether.
func WithConfigFlag(flag string) Option {
	return func(o *options) {
		if flag != "" && !strings.HasPrefix(flag, "-") {
			flag = "--" + flag
		}
		o.configFlag = flag
	}
}

// WithDefaultConfig reads path as a config file before any file named on the
// command line, so those files and the command line override it. A missing
// file is skipped. It is independent of the config flag.
func WithDefaultConfig(path string) Option {
	return func(o *options) { o.defaultConfig = path }
}

// ProgramArgsFile returns the path of the program binary with its extension
// replaced by ".args", for use with WithDefaultConfig.
func ProgramArgsFile() string {
	prog := os.Args[0]
	return strings.TrimSuffix(prog, filepath.Ext(prog)) + ".args"
}

// WithProgram sets the program name shown in the usage line.
func WithProgram(name string) Option {
	return func(o *options) { o.program = name }
}

// WithDescription sets the paragraph printed under the usage line.
func WithDescription(desc string) Option {
	return func(o *options) { o.description = desc }
}

// WithOutput sets where help is written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithLogf traces which source filled each field.
func WithLogf(logf logger.Logf) Option {
	return func(o *options) {
		if logf == nil {
			logf = logger.Discard
		}
		o.logf = logf
	}
}
