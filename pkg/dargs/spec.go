// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/huandu/xstrings"
)

// Struct tags understood on record fields.
const (
	tagFlag    = "flag"
	tagAliases = "aliases"
	tagHelp    = "help"
	tagDefault = "default"
	tagChoices = "choices"
	tagMetavar = "metavar"
)

// record is one declared record type and its fields, in declaration order.
type record struct {
	index int
	typ   reflect.Type
	specs []*argSpec
}

func (rec *record) name() string {
	if n := rec.typ.Name(); n != "" {
		return n
	}
	return fmt.Sprintf("record%d", rec.index)
}

// argSpec is the normalized description of one record field.
type argSpec struct {
	record   *record
	field    reflect.StructField
	name     string   // dash-stripped canonical name, e.g. "data_path"
	flag     string   // "--data_path"
	aliases  []string // verbatim, e.g. "--data", "-d"
	negation string   // "--no_cuda", booleans only
	help     string
	meta     string // metavar override
	typ      fieldType

	required   bool
	hasDefault bool
	def        reflect.Value // converted default, valid when hasDefault
	defText    string        // default as shown in help
}

// recordType accepts a struct value, a pointer to a struct, or a
// reflect.Type naming either.
func recordType(v any) (reflect.Type, error) {
	var t reflect.Type
	switch v := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil record")
	case reflect.Type:
		t = v
	default:
		t = reflect.TypeOf(v)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("record must be a struct, got %s", t)
	}
	return t, nil
}

// declare builds the argSpecs of every exported field of rec.typ.
func (rec *record) declare() error {
	t := rec.typ
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get(tagFlag) == "-" {
			continue
		}
		if f.Anonymous {
			return rec.declError(f.Name, "embedded fields are not supported", nil)
		}
		s, err := rec.buildSpec(f)
		if err != nil {
			return err
		}
		rec.specs = append(rec.specs, s)
	}
	return nil
}

func (rec *record) declError(field, reason string, err error) *DeclarationError {
	return &DeclarationError{Record: rec.name(), Field: field, Reason: reason, Err: err}
}

func (rec *record) buildSpec(f reflect.StructField) (*argSpec, error) {
	choicesTag, hasChoices := f.Tag.Lookup(tagChoices)
	ft, err := classify(f.Type, choicesTag, hasChoices)
	if err != nil {
		return nil, rec.declError(f.Name, "unsupported field", err)
	}

	name := strings.TrimLeft(f.Tag.Get(tagFlag), "-")
	if name == "" {
		name = xstrings.ToSnakeCase(f.Name)
	}
	s := &argSpec{
		record: rec,
		field:  f,
		name:   name,
		flag:   "--" + name,
		help:   f.Tag.Get(tagHelp),
		meta:   f.Tag.Get(tagMetavar),
		typ:    ft,
	}
	if ft.Shape == ShapeBool {
		s.negation = "--no_" + name
	}

	for _, a := range splitAliases(f.Tag.Get(tagAliases)) {
		if !strings.HasPrefix(a, "-") || strings.Trim(a, "-") == "" {
			return nil, rec.declError(f.Name, fmt.Sprintf("invalid alias %q", a), nil)
		}
		s.aliases = append(s.aliases, a)
	}

	raw, ok := f.Tag.Lookup(tagDefault)
	switch {
	case ok:
		v, err := s.parseDefault(raw)
		if err != nil {
			return nil, rec.declError(f.Name, fmt.Sprintf("invalid default %q", raw), err)
		}
		s.hasDefault, s.def, s.defText = true, v, raw
	case ft.Shape == ShapeBool || ft.Pointer:
		s.hasDefault, s.def = true, reflect.Zero(f.Type)
		if ft.Shape == ShapeBool && !ft.Pointer {
			s.defText = "false"
		}
	default:
		s.required = true
	}
	return s, nil
}

func splitAliases(tag string) []string {
	return strings.FieldsFunc(tag, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// parseDefault converts a default tag with the same rules as user input.
// Choice defaults are matched against the literals by type and value.
func (s *argSpec) parseDefault(raw string) (reflect.Value, error) {
	ft := s.typ
	switch ft.Shape {
	case ShapeChoice:
		c, err := ft.Choices.lookup(raw, literalOrText(raw), ft.Elem)
		if err != nil {
			return reflect.Value{}, err
		}
		if c == nil && ft.Pointer {
			return reflect.Zero(s.field.Type), nil
		}
		v := literalValue(c, ft.Elem)
		if !ft.Pointer {
			return v, nil
		}
		p := reflect.New(ft.Elem)
		p.Elem().Set(v)
		return p, nil

	case ShapeChoiceList:
		items, lits, err := defaultItems(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.MakeSlice(s.field.Type, len(items), len(items))
		for i, item := range items {
			c, err := ft.Choices.lookup(item, lits[i], ft.Elem)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(literalValue(c, ft.Elem))
		}
		return out, nil

	case ShapeList:
		items, _, err := defaultItems(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return s.convert(items, SourceDefault)
	}
	return s.convert([]string{raw}, SourceDefault)
}

// literalOrText reads raw as a typed YAML scalar, falling back to the text.
func literalOrText(raw string) any {
	lit, err := parseLiteral(raw)
	if err != nil {
		return raw
	}
	return lit
}

// defaultItems splits a list default: a YAML flow sequence when bracketed,
// whitespace-separated tokens otherwise. It returns each item's text and its
// typed literal.
func defaultItems(raw string) ([]string, []any, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "[") {
		items := strings.Fields(s)
		lits := make([]any, len(items))
		for i, item := range items {
			lits[i] = literalOrText(item)
		}
		return items, lits, nil
	}
	nodes, err := flowSequence(s)
	if err != nil {
		return nil, nil, err
	}
	items := make([]string, len(nodes))
	lits := make([]any, len(nodes))
	for i, n := range nodes {
		lit, err := decodeLiteral(n)
		if err != nil {
			return nil, nil, err
		}
		items[i], lits[i] = n.Value, lit
	}
	return items, lits, nil
}
