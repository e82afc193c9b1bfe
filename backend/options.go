package backend

import (
	"fmt"
	"strconv"
)

// Options carries backend keyword options such as "indent" or "strict".
type Options map[string]any

// Filter returns the subset of o whose keys are listed in keys.
func (o Options) Filter(keys []string) Options {
	out := make(Options, len(keys))

	for _, key := range keys {
		if val, ok := o[key]; ok {
			out[key] = val
		}
	}

	return out
}

// Bool returns the option as a boolean. Strings such as "true" or "1" are accepted.
func (o Options) Bool(key string, def bool) bool {
	switch val := o[key].(type) {
	case bool:
		return val
	case string:
		parsed, err := strconv.ParseBool(val)
		if err == nil {
			return parsed
		}
	case int:
		return val != 0
	}

	return def
}

// Int returns the option as an int. Numeric strings are accepted.
func (o Options) Int(key string, def int) int {
	switch val := o[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case uint64:
		return int(val) //nolint:gosec // option values are small
	case float64:
		return int(val)
	case string:
		parsed, err := strconv.Atoi(val)
		if err == nil {
			return parsed
		}
	}

	return def
}

// String returns the option as a string.
func (o Options) String(key, def string) string {
	val, ok := o[key]
	if !ok || val == nil {
		return def
	}

	if s, ok := val.(string); ok {
		return s
	}

	return fmt.Sprint(val)
}

// LoadOptionsOf returns the recognized load options of b, filtered from opts.
func LoadOptionsOf(b Backend, opts Options) Options {
	lister, ok := b.(OptionLister)
	if !ok {
		return Options{}
	}

	return opts.Filter(lister.LoadOptions())
}

// DumpOptionsOf returns the recognized dump options of b, filtered from opts.
func DumpOptionsOf(b Backend, opts Options) Options {
	lister, ok := b.(OptionLister)
	if !ok {
		return Options{}
	}

	return opts.Filter(lister.DumpOptions())
}
