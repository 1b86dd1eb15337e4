// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfgfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// parseLines reads the plain format: each non-blank line is a flag followed
// by zero or more whitespace-separated values.
func parseLines(data []byte) ([]string, error) {
	var tokens []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if !strings.HasPrefix(fields[0], "-") {
			return nil, &Error{Line: line, Err: fmt.Errorf("expected a flag, got %q", fields[0])}
		}
		tokens = append(tokens, fields...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

func flagFor(key string) string {
	if strings.HasPrefix(key, "-") {
		return key
	}
	return "--" + key
}

// parseTOML reads top-level keys in document order.
func parseTOML(data []byte) ([]string, error) {
	var doc map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		var pe toml.ParseError
		if errors.As(err, &pe) {
			return nil, &Error{Line: pe.Position.Line, Err: errors.New(pe.Message)}
		}
		return nil, err
	}
	var tokens []string
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		flag := flagFor(name)
		switch v := doc[name].(type) {
		case []any:
			if len(v) == 0 {
				tokens = append(tokens, flag)
				continue
			}
			for _, item := range v {
				s, err := tomlScalar(item)
				if err != nil {
					return nil, fmt.Errorf("key %q: %w", name, err)
				}
				tokens = append(tokens, flag+"="+s)
			}
		default:
			s, err := tomlScalar(v)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", name, err)
			}
			tokens = append(tokens, flag+"="+s)
		}
	}
	return tokens, nil
}

func tomlScalar(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fmt.Errorf("nested values are not supported")
}

// parseYAML reads a top-level mapping in document order. Null values are
// skipped.
func parseYAML(data []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &Error{Line: root.Line, Err: errors.New("expected a mapping of flag names to values")}
	}
	var tokens []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		flag := flagFor(k.Value)
		switch v.Kind {
		case yaml.ScalarNode:
			if v.ShortTag() == "!!null" {
				continue
			}
			tokens = append(tokens, flag+"="+v.Value)
		case yaml.SequenceNode:
			if len(v.Content) == 0 {
				tokens = append(tokens, flag)
				continue
			}
			for _, item := range v.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, &Error{Line: item.Line, Err: fmt.Errorf("key %q: nested values are not supported", k.Value)}
				}
				tokens = append(tokens, flag+"="+item.Value)
			}
		default:
			return nil, &Error{Line: v.Line, Err: fmt.Errorf("key %q: nested values are not supported", k.Value)}
		}
	}
	return tokens, nil
}
