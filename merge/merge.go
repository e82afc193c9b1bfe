// Package merge combines configuration mappings under one of four strategies.
//
// Into writes into its first argument: callers accumulating many sources keep a
// single map and fold every source into it. Values taken from the other mapping
// are deep copied, so self never shares nested maps or lists with it. Merged is
// the variant that leaves self untouched too.
//
// Strategies, applied per key of the other mapping, in its iteration order:
//   - Replace: self[k] = other[k]
//   - NoReplace: self[k] = other[k] only when self has no k
//   - MergeDicts: recurse when both values are mappings, otherwise replace;
//     lists are replaced wholesale
//   - MergeDictsAndLists: like MergeDicts, but lists are extended with the
//     elements of the other list not already present (compared with Equal,
//     a linear scan, so unhashable elements such as maps work)
package merge

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mohae/deepcopy"
)

// Strategy names a merge policy.
type Strategy string

const (
	// Replace overwrites existing keys.
	Replace Strategy = "replace"
	// NoReplace keeps existing keys.
	NoReplace Strategy = "noreplace"
	// MergeDicts merges nested mappings recursively and replaces everything else.
	MergeDicts Strategy = "merge_dicts"
	// MergeDictsAndLists is MergeDicts plus order preserving list union.
	MergeDictsAndLists Strategy = "merge_dicts_and_lists"

	// Default is the strategy used when none is given.
	Default = MergeDicts
)

// ErrUnknownStrategy is returned for strategy names outside the known set.
var ErrUnknownStrategy = errors.New("unknown merge strategy")

// ErrInvalidPairs is returned when a pair sequence cannot be turned into a mapping.
var ErrInvalidPairs = errors.New("invalid key/value pairs")

// Func is a caller supplied merge policy. It must write other into self.
type Func func(self, other map[string]any) error

// Strategies returns the known strategies in documentation order.
func Strategies() []Strategy {
	return []Strategy{Replace, NoReplace, MergeDicts, MergeDictsAndLists}
}

// Parse converts a strategy name to a Strategy. Names are case-insensitive and
// accept "-" in place of "_".
func Parse(name string) (Strategy, error) {
	normalized := Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))

	if normalized.Valid() {
		return normalized, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case Replace, NoReplace, MergeDicts, MergeDictsAndLists:
		return true
	default:
		return false
	}
}

// Into merges other into self in place using strategy s.
// self must be non-nil unless other is empty. other is never modified and
// later changes to self do not reach it.
func Into(self, other map[string]any, s Strategy) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}

	if len(other) == 0 {
		return nil
	}

	if self == nil {
		return fmt.Errorf("merge into nil mapping: other=%v", other)
	}

	copied, _ := deepcopy.Copy(other).(map[string]any)
	into(self, copied, s)

	return nil
}

// IntoFunc merges other into self using a caller supplied policy.
func IntoFunc(self, other map[string]any, fn Func) error {
	if fn == nil {
		return fmt.Errorf("%w: nil merge function", ErrUnknownStrategy)
	}

	err := fn(self, other)
	if err != nil {
		return fmt.Errorf("merge function failed for %v: %w", other, err)
	}

	return nil
}

// Merged returns a deep copy of self with other merged into it. Neither argument is modified.
func Merged(self, other map[string]any, s Strategy) (map[string]any, error) {
	out := map[string]any{}
	if self != nil {
		copied, ok := deepcopy.Copy(self).(map[string]any)
		if ok && copied != nil {
			out = copied
		}
	}

	err := Into(out, other, s)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Pair is one key/value entry of a pair sequence.
type Pair struct {
	Key   string
	Value any
}

// FromPairs builds a mapping from a pair sequence, the other accepted input shape
// besides a mapping. Elements may be Pair values or two-element slices whose
// first element is a string; anything else fails with ErrInvalidPairs naming the value.
func FromPairs(pairs any) (map[string]any, error) {
	switch typed := pairs.(type) {
	case map[string]any:
		return typed, nil
	case []Pair:
		out := make(map[string]any, len(typed))
		for _, pair := range typed {
			out[pair.Key] = pair.Value
		}

		return out, nil
	}

	val := reflect.ValueOf(pairs)
	if !val.IsValid() || (val.Kind() != reflect.Slice && val.Kind() != reflect.Array) {
		return nil, fmt.Errorf("%w: %#v", ErrInvalidPairs, pairs)
	}

	out := make(map[string]any, val.Len())

	for i := range val.Len() {
		item := val.Index(i).Interface()

		if pair, ok := item.(Pair); ok {
			out[pair.Key] = pair.Value

			continue
		}

		elems, ok := asList(item)
		if !ok || len(elems) != 2 {
			return nil, fmt.Errorf("%w: element %d of %#v", ErrInvalidPairs, i, pairs)
		}

		key, ok := elems[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string key %#v in %#v", ErrInvalidPairs, elems[0], pairs)
		}

		out[key] = elems[1]
	}

	return out, nil
}

func into(self, other map[string]any, s Strategy) {
	for key, val := range other {
		switch s {
		case Replace:
			self[key] = val
		case NoReplace:
			if _, exists := self[key]; !exists {
				self[key] = val
			}
		case MergeDicts, MergeDictsAndLists:
			mergeKey(self, key, val, s)
		}
	}
}

func mergeKey(self map[string]any, key string, val any, s Strategy) {
	current, exists := self[key]

	if otherMap, ok := val.(map[string]any); ok {
		if selfMap, ok := current.(map[string]any); ok && exists {
			into(selfMap, otherMap, s)

			return
		}

		self[key] = val

		return
	}

	if s == MergeDictsAndLists {
		if otherList, ok := asList(val); ok {
			if !exists {
				self[key] = append(make([]any, 0, len(otherList)), otherList...)

				return
			}

			if selfList, ok := asList(current); ok {
				self[key] = union(selfList, otherList)

				return
			}
		}
	}

	self[key] = val
}

// union appends the elements of other missing from self, in other's order.
// Membership is checked against self only: duplicates already in self are kept
// and so are repeated new elements of other.
func union(self, other []any) []any {
	out := append(make([]any, 0, len(self)+len(other)), self...)

	for _, item := range other {
		if !containsEqual(self, item) {
			out = append(out, item)
		}
	}

	return out
}

func containsEqual(list []any, item any) bool {
	for _, existing := range list {
		if Equal(existing, item) {
			return true
		}
	}

	return false
}

// Equal compares two configuration values. Numbers compare by value across
// types (int 1 equals float64 1.0, since JSON and YAML backends differ there);
// mappings and lists compare element-wise; everything else uses reflect.DeepEqual.
func Equal(a, b any) bool {
	if na, ok := number(a); ok {
		nb, ok := number(b)

		return ok && na == nb
	}

	switch ta := a.(type) {
	case map[string]any:
		tb, ok := b.(map[string]any)
		if !ok || len(ta) != len(tb) {
			return false
		}

		for key, va := range ta {
			vb, exists := tb[key]
			if !exists || !Equal(va, vb) {
				return false
			}
		}

		return true
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}

		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}

		return true
	}

	return reflect.DeepEqual(a, b)
}

func number(val any) (float64, bool) {
	rv := reflect.ValueOf(val)

	switch rv.Kind() { //nolint:exhaustive // only numeric kinds matter
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// asList converts any slice or array except byte slices and strings into []any.
func asList(val any) ([]any, bool) {
	switch typed := val.(type) {
	case []any:
		return typed, true
	case nil, []byte, string:
		return nil, false
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}
