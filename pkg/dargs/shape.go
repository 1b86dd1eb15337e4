// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dargs

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"time"
)

// Shape is the structural category of a field, derived from its Go type and
// its choices tag.
type Shape int

const (
	ShapeScalar     Shape = iota // T
	ShapeOptional                // *T, absent means nil
	ShapeBool                    // bool or *bool, always a switch
	ShapeChoice                  // T or *T with a choices tag
	ShapeList                    // []T
	ShapeChoiceList              // []T with a choices tag
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeOptional:
		return "optional"
	case ShapeBool:
		return "bool"
	case ShapeChoice:
		return "choice"
	case ShapeList:
		return "list"
	case ShapeChoiceList:
		return "choice-list"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// fieldType is the classified form of a field's Go type.
type fieldType struct {
	Shape   Shape
	Elem    reflect.Type // scalar element, after pointer or slice unwrapping
	Pointer bool         // field type is *Elem
	Choices ChoiceSet
}

func (ft fieldType) isList() bool {
	return ft.Shape == ShapeList || ft.Shape == ShapeChoiceList
}

var (
	durationType        = reflect.TypeFor[time.Duration]()
	urlType             = reflect.TypeFor[url.URL]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// isTextType reports whether values of t decode themselves from text.
func isTextType(t reflect.Type) bool {
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// isScalar reports whether t can be built from a single token.
func isScalar(t reflect.Type) bool {
	if t == durationType || t == urlType || isTextType(t) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// classify maps a field's Go type and its choices tag onto a Shape.
// choicesTag is only consulted when hasChoices is set.
func classify(t reflect.Type, choicesTag string, hasChoices bool) (fieldType, error) {
	elem, pointer, list := t, false, false
	switch {
	case t.Kind() == reflect.Pointer:
		elem, pointer = t.Elem(), true
	case t.Kind() == reflect.Slice && !isTextType(t):
		elem, list = t.Elem(), true
	}

	if elem.Kind() == reflect.Bool && !list {
		if hasChoices {
			return fieldType{}, fmt.Errorf("choices are not supported on boolean fields")
		}
		return fieldType{Shape: ShapeBool, Elem: elem, Pointer: pointer}, nil
	}

	if hasChoices {
		cs, err := parseChoices(choicesTag, elem)
		if err != nil {
			return fieldType{}, err
		}
		if err := cs.compatible(elem, pointer); err != nil {
			return fieldType{}, err
		}
		shape := ShapeChoice
		if list {
			shape = ShapeChoiceList
		}
		return fieldType{Shape: shape, Elem: elem, Pointer: pointer, Choices: cs}, nil
	}

	if !isScalar(elem) {
		if elem.Kind() == reflect.Interface {
			return fieldType{}, fmt.Errorf("interface type %s requires a choices tag", t)
		}
		return fieldType{}, fmt.Errorf("unsupported type %s", t)
	}
	switch {
	case list:
		return fieldType{Shape: ShapeList, Elem: elem}, nil
	case pointer:
		return fieldType{Shape: ShapeOptional, Elem: elem, Pointer: true}, nil
	}
	return fieldType{Shape: ShapeScalar, Elem: elem}, nil
}
