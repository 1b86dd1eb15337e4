// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// parseBool accepts the usual truthy and falsy spellings, case-insensitively.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "t", "y", "1":
		return true, nil
	case "no", "false", "f", "n", "0":
		return false, nil
	}
	return false, fmt.Errorf("truthy value expected: got %q but expected one of yes/no, true/false, t/f, y/n, 1/0", s)
}

// parseScalar converts one raw token to a value of type t.
func parseScalar(t reflect.Type, value string) (reflect.Value, error) {
	switch {
	case t == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		return reflect.ValueOf(d), nil
	case t == urlType:
		u, err := url.Parse(value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid URL %q: %w", value, err)
		}
		return reflect.ValueOf(*u), nil
	case isTextType(t):
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value)); err != nil {
			return reflect.Value{}, fmt.Errorf("invalid %s %q: %w", t, value, err)
		}
		return v.Elem(), nil
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(value)
	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid int value %q: %w", value, err)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid uint value %q: %w", value, err)
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid float value %q: %w", value, err)
		}
		v.SetFloat(f)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported type %s", t)
	}
	return v, nil
}

// typeLabel names t the way users see it in errors and help.
func typeLabel(t reflect.Type) string {
	switch {
	case t == durationType:
		return "duration"
	case t == urlType:
		return "URL"
	case isTextType(t):
		return t.String()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Float32, reflect.Float64:
		return "float"
	}
	return t.String()
}

// element converts one token to the field's element type.
func (s *argSpec) element(token string) (reflect.Value, error) {
	ft := s.typ
	switch ft.Shape {
	case ShapeChoice, ShapeChoiceList:
		c, ok := ft.Choices.match(token)
		if !ok {
			return reflect.Value{}, fmt.Errorf("not one of %s", ft.Choices)
		}
		return literalValue(c, ft.Elem), nil
	}
	return parseScalar(ft.Elem, token)
}

// expected describes what element accepts.
func (s *argSpec) expected() string {
	if s.typ.Choices != nil {
		return "one of " + s.typ.Choices.String()
	}
	if s.typ.Shape == ShapeBool {
		return "a truthy or falsy value"
	}
	return typeLabel(s.typ.Elem)
}

// convert turns resolved tokens into a value assignable to the field.
func (s *argSpec) convert(tokens []string, src Source) (reflect.Value, error) {
	ft := s.typ
	if ft.isList() {
		out := reflect.MakeSlice(s.field.Type, len(tokens), len(tokens))
		for i, tok := range tokens {
			v, err := s.element(tok)
			if err != nil {
				return reflect.Value{}, s.valueError(tok, src, err)
			}
			out.Index(i).Set(v)
		}
		return out, nil
	}
	if len(tokens) == 0 {
		return reflect.Value{}, s.valueError("", src, fmt.Errorf("expected one argument"))
	}
	tok := tokens[len(tokens)-1]
	v, err := s.element(tok)
	if err != nil {
		return reflect.Value{}, s.valueError(tok, src, err)
	}
	if !ft.Pointer {
		return v, nil
	}
	if ft.Shape == ShapeChoice && isNilChoice(ft.Choices, tok) {
		return reflect.Zero(s.field.Type), nil
	}
	p := reflect.New(ft.Elem)
	p.Elem().Set(v)
	return p, nil
}

// isNilChoice reports whether token selects the null literal.
func isNilChoice(cs ChoiceSet, token string) bool {
	c, ok := cs.match(token)
	return ok && c == nil
}

func (s *argSpec) valueError(token string, src Source, err error) *ValueError {
	return &ValueError{
		Record:   s.record.name(),
		Field:    s.field.Name,
		Flag:     s.flag,
		Token:    token,
		Expected: s.expected(),
		Source:   src,
		Err:      err,
	}
}

// cloneValue returns a copy of v that shares no slice or pointer memory with v.
func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(out, v)
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(v.Elem())
		return out
	}
	return v
}
