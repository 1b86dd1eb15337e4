// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cfgfile reads argument files and turns them into the tokens a
// command line would have carried.
//
// Three syntaxes are understood, chosen by file extension:
//
//	# train.args (any other extension)
//	--epochs 10
//	--data_path ./data
//	--log_backends wandb tensorboard
//
//	# train.toml
//	epochs = 10
//	log_backends = ["wandb", "tensorboard"]
//
//	# train.yaml
//	epochs: 10
//	log_backends: [wandb, tensorboard]
//
// Any of them may be zstd or gzip compressed; compression is detected from
// the file contents.
package cfgfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Error reports a problem with a config file, at a line when known.
type Error struct {
	Path string
	Line int // 1-based, zero if unknown
	Err  error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads the config file at path and returns its arguments as
// command-line tokens, in file order.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, _ := br.Peek(len(zstdMagic))
	data, err := readAll(br, DetectEncoding(head))
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return Parse(path, DetectFormat(path), data)
}

// Parse converts already decompressed config data in the given format into
// tokens. path is only used in errors.
func Parse(path string, format Format, data []byte) ([]string, error) {
	var (
		tokens []string
		err    error
	)
	switch format {
	case TOML:
		tokens, err = parseTOML(data)
	case YAML:
		tokens, err = parseYAML(data)
	default:
		tokens, err = parseLines(data)
	}
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
			return nil, ce
		}
		return nil, &Error{Path: path, Err: err}
	}
	return tokens, nil
}
