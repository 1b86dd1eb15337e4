// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shayne/yargs"
	"tailscale.com/util/mak"
)

// occurrence is what one source said about one field.
type occurrence struct {
	tokens []string
	empty  bool // a list flag was given without values
}

// looksLikeFlag reports whether tok starts a new flag rather than being a
// value. Registered names always count; negative numbers never do.
func (r *registry) looksLikeFlag(tok string) bool {
	if _, ok := r.lookup(tok); ok {
		return true
	}
	if len(tok) < 2 || !strings.HasPrefix(tok, "-") {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err != nil
}

// normalize rewrites aliases to canonical names and attaches every value to
// its flag as --name=value, so that yargs sees one token per value. List
// flags gather values greedily; a bare list flag is reported in empty.
// Tokens that belong to no registered flag, and everything from "--" on,
// are returned in rest and never reach yargs.
func (r *registry) normalize(args []string, src Source) (out, rest []string, empty []*argSpec, err error) {
	out = make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			rest = append(rest, args[i:]...)
			break
		}
		rl, ok := r.lookup(arg)
		if !ok {
			rest = append(rest, arg)
			continue
		}
		canon := rl.canonical()
		if _, value, hasValue := strings.Cut(arg, "="); hasValue {
			out = append(out, canon+"="+value)
			continue
		}

		s := rl.spec
		switch {
		case s.typ.isList():
			j := i + 1
			for ; j < len(args) && !r.looksLikeFlag(args[j]); j++ {
				out = append(out, canon+"="+args[j])
			}
			if j == i+1 {
				empty = append(empty, s)
			}
			i = j - 1
		case s.typ.Shape == ShapeBool:
			if !rl.negate && i+1 < len(args) && !r.looksLikeFlag(args[i+1]) {
				if _, err := parseBool(args[i+1]); err == nil {
					out = append(out, canon+"="+args[i+1])
					i++
					continue
				}
			}
			out = append(out, canon)
		default:
			if i+1 >= len(args) || r.looksLikeFlag(args[i+1]) {
				return nil, nil, nil, s.valueError("", src, errors.New("expected one argument"))
			}
			out = append(out, canon+"="+args[i+1])
			i++
		}
	}
	return out, rest, empty, nil
}

// scan splits one source's tokens into per-field occurrences. Tokens no
// registered flag accounts for are returned in rest.
func (r *registry) scan(args []string, src Source) (occ map[*argSpec]*occurrence, rest []string, err error) {
	norm, rest, empty, err := r.normalize(args, src)
	if err != nil {
		return nil, nil, err
	}
	remaining, values := yargs.ConsumeFlagsBySpec(norm, r.consume)
	rest = append(rest, remaining...)

	negated := make(map[*argSpec]bool)
	asserted := make(map[*argSpec]bool)
	for name, vals := range values {
		rl := r.byName[name]
		s := rl.spec
		switch {
		case s.typ.Shape == ShapeBool:
			tok := vals[len(vals)-1]
			b, err := parseBool(tok)
			if err != nil {
				return nil, nil, s.valueError(tok, src, err)
			}
			if rl.negate {
				negated[s] = true
				b = !b
			} else {
				asserted[s] = true
			}
			if asserted[s] && negated[s] {
				return nil, nil, &FlagConflictError{Flag: s.flag, Negation: s.negation}
			}
			mak.Set(&occ, s, &occurrence{tokens: []string{strconv.FormatBool(b)}})
		case s.typ.isList():
			mak.Set(&occ, s, &occurrence{tokens: vals})
		default:
			mak.Set(&occ, s, &occurrence{tokens: vals[len(vals)-1:]})
		}
	}
	for _, s := range empty {
		if _, ok := occ[s]; !ok {
			mak.Set(&occ, s, &occurrence{empty: true})
		}
	}
	return occ, rest, nil
}
