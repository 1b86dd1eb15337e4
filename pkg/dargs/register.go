// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shayne/yargs"
	"tailscale.com/util/set"
)

// rule is what one registered flag name resolves to.
type rule struct {
	spec   *argSpec
	negate bool // the synthesized --no_<name> of a boolean
}

// canonical returns the flag the rule is rewritten to before splitting.
func (r *rule) canonical() string {
	if r.negate {
		return r.spec.negation
	}
	return r.spec.flag
}

// registry holds every flag rule of a parser. rules is keyed by the exact
// flag strings a user may type; byName and consume are keyed by the
// dash-stripped canonical names that yargs reports.
type registry struct {
	rules   map[string]*rule
	byName  map[string]*rule
	consume map[string]yargs.ConsumeSpec // canonical names and negations only
}

func bareName(flag string) string {
	return strings.TrimLeft(flag, "-")
}

// register builds the rule table for specs. reserved holds exact flag
// strings, such as "--help", that no field may claim.
func register(specs []*argSpec, reserved set.Set[string]) (*registry, error) {
	r := &registry{
		rules:   make(map[string]*rule),
		byName:  make(map[string]*rule),
		consume: make(map[string]yargs.ConsumeSpec),
	}
	owners := make(map[string]string) // flag -> "Record.Field"

	add := func(s *argSpec, flag string, rl *rule) error {
		owner := s.record.name() + "." + s.field.Name
		if reserved.Contains(flag) {
			return s.record.declError(s.field.Name, fmt.Sprintf("flag %s is reserved", flag), nil)
		}
		if prev, ok := owners[flag]; ok {
			return s.record.declError(s.field.Name, fmt.Sprintf("flag %s collides with %s", flag, prev), nil)
		}
		owners[flag] = owner
		r.rules[flag] = rl
		return nil
	}

	for _, s := range specs {
		pos := &rule{spec: s}
		if err := add(s, s.flag, pos); err != nil {
			return nil, err
		}
		for _, a := range s.aliases {
			if err := add(s, a, pos); err != nil {
				return nil, err
			}
		}
		r.byName[s.name] = pos
		r.consume[s.name] = consumeSpec(s)
		if s.negation != "" {
			neg := &rule{spec: s, negate: true}
			if err := add(s, s.negation, neg); err != nil {
				return nil, err
			}
			r.byName[bareName(s.negation)] = neg
			r.consume[bareName(s.negation)] = yargs.ConsumeSpec{Kind: reflect.Bool}
		}
	}
	return r, nil
}

func consumeSpec(s *argSpec) yargs.ConsumeSpec {
	switch {
	case s.typ.Shape == ShapeBool:
		return yargs.ConsumeSpec{Kind: reflect.Bool}
	case s.typ.isList():
		return yargs.ConsumeSpec{Kind: reflect.Slice}
	}
	return yargs.ConsumeSpec{Kind: reflect.String}
}

// lookup finds the rule for a flag token such as "--lr" or "-d=x". The text
// before any "=" must match a registered flag exactly.
func (r *registry) lookup(tok string) (*rule, bool) {
	if !strings.HasPrefix(tok, "-") {
		return nil, false
	}
	name, _, _ := strings.Cut(tok, "=")
	rl, ok := r.rules[name]
	return rl, ok
}
