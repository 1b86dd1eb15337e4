// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChoiceSet is the ordered set of literals a choice field accepts. Literals
// keep their own primitive type: int, int64, uint64, float64, bool, string or
// nil. Fields whose element type decodes itself from text (time.Duration,
// uuid.UUID, ...) hold values of that type instead.
type ChoiceSet []any

// flowSequence decodes a YAML flow sequence. The surrounding brackets are
// optional.
func flowSequence(src string) ([]*yaml.Node, error) {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, "[") {
		s = "[" + s + "]"
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) != 1 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%q is not a sequence", src)
	}
	return doc.Content[0].Content, nil
}

func decodeLiteral(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: expected a scalar", n.Line)
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case nil, bool, int, int64, uint64, float64, string:
		return v, nil
	}
	// Timestamps and other resolved tags stay textual.
	return n.Value, nil
}

// parseLiteral decodes a single YAML scalar such as `32`, `bf16` or `'16'`.
func parseLiteral(s string) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return s, nil
	}
	return decodeLiteral(doc.Content[0])
}

// parseChoices decodes a choices tag for a field whose element type is elem.
// String fields take every literal verbatim; text-decoding fields parse each
// literal with their own decoder.
func parseChoices(tag string, elem reflect.Type) (ChoiceSet, error) {
	nodes, err := flowSequence(tag)
	if err != nil {
		return nil, fmt.Errorf("invalid choices: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("choices must not be empty")
	}
	typed := elem == durationType || isTextType(elem)
	if typed && !elem.Comparable() {
		return nil, fmt.Errorf("choices are not supported on %s", elem)
	}
	cs := make(ChoiceSet, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("choice at line %d, column %d is not a scalar", n.Line, n.Column)
		}
		switch {
		case n.ShortTag() == "!!null":
			cs = append(cs, nil)
		case typed:
			v, err := parseScalar(elem, n.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid choice %q: %w", n.Value, err)
			}
			cs = append(cs, v.Interface())
		case elem.Kind() == reflect.String:
			cs = append(cs, n.Value)
		default:
			lit, err := decodeLiteral(n)
			if err != nil {
				return nil, fmt.Errorf("invalid choice %q: %w", n.Value, err)
			}
			cs = append(cs, lit)
		}
	}
	return cs, nil
}

// compatible reports whether every literal can be stored in a field whose
// element type is elem.
func (cs ChoiceSet) compatible(elem reflect.Type, nullable bool) error {
	for _, c := range cs {
		if c == nil {
			if !nullable && elem.Kind() != reflect.Interface {
				return fmt.Errorf("choice null requires a pointer or interface field")
			}
			continue
		}
		if elem.Kind() == reflect.Interface {
			if !reflect.TypeOf(c).Implements(elem) {
				return fmt.Errorf("choice %s does not implement %s", formatLiteral(c), elem)
			}
			continue
		}
		if !literalFits(c, elem) {
			return fmt.Errorf("choice %s does not fit field type %s", formatLiteral(c), elem)
		}
	}
	return nil
}

func literalFits(c any, t reflect.Type) bool {
	if reflect.TypeOf(c) == t {
		return true
	}
	zero := reflect.New(t).Elem()
	switch c := c.(type) {
	case string:
		return t.Kind() == reflect.String
	case bool:
		return t.Kind() == reflect.Bool
	case int:
		return intFits(zero, int64(c))
	case int64:
		return intFits(zero, c)
	case uint64:
		switch t.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return !zero.OverflowUint(c)
		case reflect.Float32, reflect.Float64:
			return true
		}
	case float64:
		return (t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64) && !zero.OverflowFloat(c)
	}
	return false
}

func intFits(zero reflect.Value, n int64) bool {
	switch zero.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return !zero.OverflowInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return n >= 0 && !zero.OverflowUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// match returns the first literal, in declaration order, whose type accepts
// token and whose value equals the converted token.
func (cs ChoiceSet) match(token string) (any, bool) {
	for _, c := range cs {
		if v, ok := literalFrom(c, token); ok && v == c {
			return c, true
		}
	}
	return nil, false
}

// literalFrom converts token to the type of the literal c.
func literalFrom(c any, token string) (any, bool) {
	switch c.(type) {
	case nil:
		switch strings.ToLower(token) {
		case "null", "none", "~":
			return nil, true
		}
		return nil, false
	case string:
		return token, true
	case int:
		n, err := strconv.ParseInt(token, 10, strconv.IntSize)
		return int(n), err == nil
	case int64:
		n, err := strconv.ParseInt(token, 10, 64)
		return n, err == nil
	case uint64:
		n, err := strconv.ParseUint(token, 10, 64)
		return n, err == nil
	case float64:
		f, err := strconv.ParseFloat(token, 64)
		return f, err == nil
	case bool:
		b, err := parseBool(token)
		return b, err == nil
	}
	v, err := parseScalar(reflect.TypeOf(c), token)
	if err != nil {
		return nil, false
	}
	return v.Interface(), true
}

// lookup resolves a default to one of the literals: first by the typed
// literal lit, then by reading raw as a command-line token.
func (cs ChoiceSet) lookup(raw string, lit any, elem reflect.Type) (any, error) {
	if elem.Kind() != reflect.String && elem != durationType && !isTextType(elem) {
		for _, c := range cs {
			if c == lit {
				return c, nil
			}
		}
	}
	if c, ok := cs.match(raw); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%q is not one of %s", raw, cs)
}

// literalValue converts a literal into a value of the field element type t.
func literalValue(c any, t reflect.Type) reflect.Value {
	if c == nil {
		return reflect.Zero(t)
	}
	v := reflect.ValueOf(c)
	if t.Kind() == reflect.Interface {
		out := reflect.New(t).Elem()
		out.Set(v)
		return out
	}
	return v.Convert(t)
}

func formatLiteral(c any) string {
	switch c := c.(type) {
	case nil:
		return "null"
	case string:
		if c == "" {
			return `""`
		}
		if lit, err := parseLiteral(c); err != nil || lit != any(c) {
			return strconv.Quote(c)
		}
		return c
	case fmt.Stringer:
		return c.String()
	}
	return fmt.Sprint(c)
}

func (cs ChoiceSet) join(sep string) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = formatLiteral(c)
	}
	return "{" + strings.Join(parts, sep) + "}"
}

// String renders the set as "{32, 16, 8, bf16, tf32}".
func (cs ChoiceSet) String() string {
	return cs.join(", ")
}

func (cs ChoiceSet) metavar() string {
	return cs.join(",")
}
