// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfgfile

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Encoding is the compression applied to a config file.
type Encoding int

const (
	Plain Encoding = iota
	Zstd
	Gzip
)

func (e Encoding) String() string {
	switch e {
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	}
	return "plain"
}

// Format is the syntax of a config file once decompressed.
type Format int

const (
	Lines Format = iota // one "<flag> [value ...]" per line
	TOML
	YAML
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	}
	return "lines"
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// DetectEncoding sniffs the compression from the first bytes of a file.
func DetectEncoding(head []byte) Encoding {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	}
	return Plain
}

// DetectFormat picks the syntax from the file name, ignoring a trailing
// compression extension: "train.toml.zst" is TOML.
func DetectFormat(path string) Format {
	base := strings.ToLower(filepath.Base(path))
	switch filepath.Ext(base) {
	case ".zst", ".zstd", ".gz":
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	switch filepath.Ext(base) {
	case ".toml":
		return TOML
	case ".yml", ".yaml":
		return YAML
	}
	return Lines
}
