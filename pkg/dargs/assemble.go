// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// build instantiates the record from fields, which must name exactly the
// record's declared fields.
func (rec *record) build(fields map[string]reflect.Value) (reflect.Value, error) {
	var missing []string
	for _, s := range rec.specs {
		if _, ok := fields[s.field.Name]; !ok {
			missing = append(missing, s.field.Name)
		}
	}
	if len(missing) > 0 || len(fields) != len(rec.specs) {
		var extra []string
		for name := range fields {
			if !slices.ContainsFunc(rec.specs, func(s *argSpec) bool { return s.field.Name == name }) {
				extra = append(extra, name)
			}
		}
		slices.Sort(extra)
		return reflect.Value{}, fmt.Errorf("dargs: cannot build %s: missing fields [%s], unexpected fields [%s]",
			rec.name(), strings.Join(missing, " "), strings.Join(extra, " "))
	}

	ptr := reflect.New(rec.typ)
	for _, s := range rec.specs {
		ptr.Elem().FieldByIndex(s.field.Index).Set(fields[s.field.Name])
	}
	return ptr, nil
}

// assemble converts every resolved value and builds one *T per record, in
// the order the records were declared.
func (p *Parser) assemble(values map[*argSpec]resolved) ([]any, error) {
	out := make([]any, 0, len(p.records))
	for _, rec := range p.records {
		fields := make(map[string]reflect.Value, len(rec.specs))
		for _, s := range rec.specs {
			v, err := s.value(values[s])
			if err != nil {
				return nil, err
			}
			fields[s.field.Name] = v
		}
		inst, err := rec.build(fields)
		if err != nil {
			return nil, err
		}
		out = append(out, inst.Interface())
	}
	return out, nil
}
