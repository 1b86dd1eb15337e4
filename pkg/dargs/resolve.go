// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/yeetrun/dargs/pkg/cfgfile"
)

// Source identifies where a field's value came from.
type Source int

const (
	SourceNone Source = iota
	SourceCommandLine
	SourceConfig
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceCommandLine:
		return "command line"
	case SourceConfig:
		return "config file"
	case SourceDefault:
		return "default"
	}
	return "none"
}

// resolved is the winning value of one field.
type resolved struct {
	tokens []string
	source Source
}

// splitConfig removes every occurrence of the config flag from args and
// returns the remaining tokens and the config paths, in order. The flag is
// matched exactly, as "--cfg path" or "--cfg=path". Nothing after "--" is
// examined.
func (p *Parser) splitConfig(args []string) ([]string, []string, error) {
	flag := p.opts.configFlag
	if flag == "" {
		return args, nil, nil
	}
	var rest, paths []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			rest = append(rest, args[i:]...)
			break
		}
		name, path, hasValue := strings.Cut(arg, "=")
		if name != flag {
			rest = append(rest, arg)
			continue
		}
		if !hasValue && i+1 < len(args) {
			path = args[i+1]
			i++
		}
		if path == "" {
			return nil, nil, &ConfigError{Err: fmt.Errorf("%s expects a file path", flag)}
		}
		paths = append(paths, path)
	}
	return rest, paths, nil
}

// readConfig loads one config file and scans it like a command line. Tokens
// the file holds for no registered flag are an error even when parsing
// known arguments only.
func (p *Parser) readConfig(path string) (map[*argSpec]*occurrence, error) {
	tokens, err := cfgfile.Load(path)
	if err != nil {
		var ce *cfgfile.Error
		if errors.As(err, &ce) {
			return nil, &ConfigError{Path: ce.Path, Line: ce.Line, Err: ce.Err}
		}
		return nil, &ConfigError{Path: path, Err: err}
	}
	p.opts.logf("dargs: read %d tokens from %s", len(tokens), path)
	occ, rest, err := p.reg.scan(tokens, SourceConfig)
	if err != nil {
		var ve *ValueError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, &ConfigError{Path: path, Err: err}
	}
	if len(rest) > 0 {
		return nil, &ConfigError{Path: path, Err: &UnrecognizedArgsError{Args: rest}}
	}
	return occ, nil
}

// readDefaultConfig loads the file set with WithDefaultConfig. A missing
// file yields no values.
func (p *Parser) readDefaultConfig() (map[*argSpec]*occurrence, error) {
	path := p.opts.defaultConfig
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		p.opts.logf("dargs: default config %s does not exist, skipping", path)
		return nil, nil
	}
	return p.readConfig(path)
}

// resolve picks one value per field: command line, else the last config file
// that names it, else the default. Every required field left without a value
// is reported in a single MissingArgsError.
func (p *Parser) resolve(cli map[*argSpec]*occurrence, configs []map[*argSpec]*occurrence) (map[*argSpec]resolved, error) {
	out := make(map[*argSpec]resolved, len(p.specs))
	var missing []string
	for _, s := range p.specs {
		emptySeen := false
		r, ok := pick(cli[s], SourceCommandLine, &emptySeen)
		for i := len(configs) - 1; !ok && i >= 0; i-- {
			r, ok = pick(configs[i][s], SourceConfig, &emptySeen)
		}
		switch {
		case ok:
		case s.hasDefault:
			r = resolved{source: SourceDefault}
		case emptySeen:
			return nil, s.valueError("", SourceNone, errors.New("expected at least one value"))
		default:
			missing = append(missing, s.flag)
			continue
		}
		p.opts.logf("dargs: %s from %v", s.flag, r.source)
		out[s] = r
	}
	if len(missing) > 0 {
		return nil, &MissingArgsError{Flags: missing}
	}
	return out, nil
}

func pick(occ *occurrence, src Source, emptySeen *bool) (resolved, bool) {
	switch {
	case occ == nil:
		return resolved{}, false
	case occ.empty:
		*emptySeen = true
		return resolved{}, false
	}
	return resolved{tokens: occ.tokens, source: src}, true
}

// value produces the field value for r.
func (s *argSpec) value(r resolved) (reflect.Value, error) {
	if r.source == SourceDefault {
		return cloneValue(s.def), nil
	}
	return s.convert(r.tokens, r.source)
}

// wantsHelp reports whether -h or --help appears before any "--".
func wantsHelp(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		switch strings.SplitN(a, "=", 2)[0] {
		case "-h", "--help":
			return true
		}
	}
	return false
}
