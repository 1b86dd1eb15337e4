// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"fmt"
	"os"
	"reflect"

	"tailscale.com/util/set"
)

// Parser turns command lines into populated records. It is built once from
// the record declarations and may be used for any number of Parse calls.
type Parser struct {
	records []*record
	specs   []*argSpec // every field of every record, in declaration order
	reg     *registry
	opts    options
}

// New validates the record declarations and registers their flags. Each
// record is a struct value, a pointer to a struct, or a reflect.Type. Any
// problem with a declaration is reported as a *DeclarationError.
func New(records []any, opts ...Option) (*Parser, error) {
	p := &Parser{opts: defaultOptions()}
	for _, o := range opts {
		o(&p.opts)
	}
	if len(records) == 0 {
		return nil, &DeclarationError{Reason: "no records declared"}
	}
	for i, r := range records {
		t, err := recordType(r)
		if err != nil {
			return nil, &DeclarationError{Record: fmt.Sprintf("record%d", i), Reason: "invalid record", Err: err}
		}
		rec := &record{index: i, typ: t}
		if err := rec.declare(); err != nil {
			return nil, err
		}
		p.records = append(p.records, rec)
		p.specs = append(p.specs, rec.specs...)
	}

	reserved := make(set.Set[string])
	reserved.Add("-h")
	reserved.Add("--help")
	if p.opts.configFlag != "" {
		reserved.Add(p.opts.configFlag)
	}
	reg, err := register(p.specs, reserved)
	if err != nil {
		return nil, err
	}
	p.reg = reg
	return p, nil
}

// Parse reads args (without the program name) and returns one *T per
// declared record, in declaration order.
//
// Values come from the command line, then from config files named by the
// config flag (later files win), then from the WithDefaultConfig file, then
// from field defaults. If -h or --help is present, help is written to the
// configured output and ErrHelp is returned.
func (p *Parser) Parse(args []string) ([]any, error) {
	recs, _, err := p.parse(args, false)
	return recs, err
}

// ParseKnown is like Parse but returns the command-line tokens that belong
// to no declared flag instead of failing on them. Unknown entries in config
// files are still an error.
func (p *Parser) ParseKnown(args []string) ([]any, []string, error) {
	return p.parse(args, true)
}

// parse runs one invocation. Unless known is set, tokens that belong to no
// flag fail the parse before any config file is read.
func (p *Parser) parse(args []string, known bool) ([]any, []string, error) {
	if wantsHelp(args) {
		if err := p.WriteHelp(p.opts.out); err != nil {
			return nil, nil, err
		}
		return nil, nil, ErrHelp
	}
	args, paths, err := p.splitConfig(args)
	if err != nil {
		return nil, nil, err
	}
	cli, rest, err := p.reg.scan(args, SourceCommandLine)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) > 0 && !known {
		return nil, nil, &UnrecognizedArgsError{Args: rest}
	}
	configs := make([]map[*argSpec]*occurrence, 0, len(paths)+1)
	if p.opts.defaultConfig != "" {
		occ, err := p.readDefaultConfig()
		if err != nil {
			return nil, nil, err
		}
		configs = append(configs, occ)
	}
	for _, path := range paths {
		occ, err := p.readConfig(path)
		if err != nil {
			return nil, nil, err
		}
		configs = append(configs, occ)
	}
	values, err := p.resolve(cli, configs)
	if err != nil {
		return nil, nil, err
	}
	recs, err := p.assemble(values)
	if err != nil {
		return nil, nil, err
	}
	return recs, rest, nil
}

// ParseArgs parses args into a single record of type T.
func ParseArgs[T any](args []string, opts ...Option) (*T, error) {
	recs, err := parseTypes(args, opts, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return recs[0].(*T), nil
}

// ParseArgs2 parses args into two records that share one command line.
func ParseArgs2[A, B any](args []string, opts ...Option) (*A, *B, error) {
	recs, err := parseTypes(args, opts, reflect.TypeFor[A](), reflect.TypeFor[B]())
	if err != nil {
		return nil, nil, err
	}
	return recs[0].(*A), recs[1].(*B), nil
}

// ParseArgs3 parses args into three records that share one command line.
func ParseArgs3[A, B, C any](args []string, opts ...Option) (*A, *B, *C, error) {
	recs, err := parseTypes(args, opts, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]())
	if err != nil {
		return nil, nil, nil, err
	}
	return recs[0].(*A), recs[1].(*B), recs[2].(*C), nil
}

// ParseKnownArgs parses args into a record of type T and returns the
// command-line tokens that belong to no field.
func ParseKnownArgs[T any](args []string, opts ...Option) (*T, []string, error) {
	p, err := New([]any{reflect.TypeFor[T]()}, opts...)
	if err != nil {
		return nil, nil, err
	}
	recs, rest, err := p.ParseKnown(args)
	if err != nil {
		return nil, nil, err
	}
	return recs[0].(*T), rest, nil
}

// Parse parses os.Args[1:] into a record of type T.
func Parse[T any](opts ...Option) (*T, error) {
	return ParseArgs[T](os.Args[1:], opts...)
}

func parseTypes(args []string, opts []Option, types ...reflect.Type) ([]any, error) {
	records := make([]any, len(types))
	for i, t := range types {
		records[i] = t
	}
	p, err := New(records, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(args)
}
