// Package query reads and writes values inside loaded configuration mappings.
//
// Get and Set address a single value by path. Two path syntaxes are accepted:
// dotted ("server.ports.0") and JSON pointer ("/server/ports/0"). List
// elements are addressed by their decimal index.
//
// Engine evaluates richer expressions with github.com/tidwall/gjson.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"

	"github.com/0xalexb/anyconf/backend"
)

var (
	// ErrNotFound is returned when a path does not lead to a value.
	ErrNotFound = errors.New("path not found")
	// ErrInvalidPath is returned for empty paths or paths that cross a scalar.
	ErrInvalidPath = errors.New("invalid path")
)

// Split converts a dotted or JSON pointer path into its segments.
// An empty path, "/" or "." addresses the root and yields no segments.
func Split(path string) []string {
	if path == "" || path == "/" || path == "." {
		return nil
	}

	if strings.HasPrefix(path, "/") {
		parts := strings.Split(path[1:], "/")
		for i, part := range parts {
			parts[i] = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		}

		return parts
	}

	return strings.Split(strings.TrimPrefix(path, "."), ".")
}

// Get returns the value at path.
func Get(data map[string]any, path string) (any, error) {
	var current any = data

	for i, key := range Split(path) {
		switch node := current.(type) {
		case map[string]any:
			val, ok := node[key]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrNotFound, joinUpTo(path, i))
			}

			current = val
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("%w: %q", ErrNotFound, joinUpTo(path, i))
			}

			current = node[idx]
		default:
			return nil, fmt.Errorf("%w: %q crosses a %T", ErrInvalidPath, joinUpTo(path, i), current)
		}
	}

	return current, nil
}

// Set stores value at path, creating intermediate mappings as needed.
// A list index equal to the list length, or "-", appends.
func Set(data map[string]any, path string, value any) error {
	keys := Split(path)
	if len(keys) == 0 {
		return fmt.Errorf("%w: cannot replace the root", ErrInvalidPath)
	}

	if data == nil {
		return fmt.Errorf("%w: nil mapping", ErrInvalidPath)
	}

	_, err := set(data, keys, value, path, 0)

	return err
}

// set writes value below node and returns the possibly reallocated node.
func set(node any, keys []string, value any, path string, depth int) (any, error) {
	key := keys[0]
	last := len(keys) == 1

	switch typed := node.(type) {
	case map[string]any:
		if last {
			typed[key] = value

			return typed, nil
		}

		child, ok := typed[key]
		if !ok || child == nil {
			child = map[string]any{}
		}

		updated, err := set(child, keys[1:], value, path, depth+1)
		if err != nil {
			return nil, err
		}

		typed[key] = updated

		return typed, nil
	case []any:
		idx := len(typed)
		if key != "-" {
			parsed, err := strconv.Atoi(key)
			if err != nil || parsed < 0 || parsed > len(typed) {
				return nil, fmt.Errorf("%w: bad list index in %q", ErrInvalidPath, joinUpTo(path, depth))
			}

			idx = parsed
		}

		if idx == len(typed) {
			typed = append(typed, nil)
		}

		if last {
			typed[idx] = value

			return typed, nil
		}

		child := typed[idx]
		if child == nil {
			child = map[string]any{}
		}

		updated, err := set(child, keys[1:], value, path, depth+1)
		if err != nil {
			return nil, err
		}

		typed[idx] = updated

		return typed, nil
	default:
		return nil, fmt.Errorf("%w: %q crosses a %T", ErrInvalidPath, joinUpTo(path, depth), node)
	}
}

func joinUpTo(path string, idx int) string {
	keys := Split(path)
	if idx+1 < len(keys) {
		keys = keys[:idx+1]
	}

	return strings.Join(keys, ".")
}

// Engine evaluates gjson path expressions such as "servers.#.name" or
// "servers.#(port>8000).name" against a mapping.
type Engine struct{}

// NewEngine returns a gjson backed query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Query evaluates expr against data. An expression matching nothing yields nil.
func (e *Engine) Query(data map[string]any, expr string) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return data, nil
	}

	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding data for query: %w", err)
	}

	result := gjson.GetBytes(content, expr)
	if !result.Exists() {
		return nil, nil //nolint:nilnil // no match is not an error
	}

	// Decode the raw match again so integers stay ints.
	decoder := json.NewDecoder(strings.NewReader(result.Raw))
	decoder.UseNumber()

	var out any

	err = decoder.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("decoding query result: %w", err)
	}

	return backend.Normalize(out), nil
}

// ParseValue interprets a command line string as a YAML scalar or flow value,
// so "1" becomes an int, "true" a bool, "null" nil and "[a, b]" a list.
// Strings that do not parse are returned as-is.
func ParseValue(s string) any {
	if strings.TrimSpace(s) == "" {
		return s
	}

	var out any

	err := yaml.Unmarshal([]byte(s), &out)
	if err != nil {
		return s
	}

	return backend.Normalize(out)
}
