package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/0xalexb/anyconf/query"
)

// Source defines an interface for reading configuration mappings.
// See config/source/file for a Source backed by anyconf.
type Source interface {
	Fetch() (map[string]any, error)
}

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Map is a Source holding a fixed mapping. Useful in tests.
type Map map[string]any

// Fetch returns the mapping.
func (m Map) Fetch() (map[string]any, error) {
	return m, nil
}

// Provider returns a function that fetches, decodes, sets defaults, and validates configuration data.
//
// The path parameter selects a section of the fetched mapping. Keys are
// separated with a colon (:); an empty path decodes the whole mapping.
func Provider[T any](target *T, path string) func(Source) (*T, error) {
	return func(source Source) (*T, error) {
		data, err := source.Fetch()
		if err != nil {
			return nil, fmt.Errorf("reading data error: %w", err)
		}

		section, err := Section(data, path)
		if err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		err = Decode(section, target)
		if err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		targetDefaulter, isDefaulter := any(target).(Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				slog.Info("defaults applied", slog.String("path", path))
			}
		}

		targetValidatable, isValidatable := any(target).(Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}

// Section returns the value at a colon separated path, e.g. "api:permissions".
// An empty path returns data itself.
func Section(data map[string]any, path string) (any, error) {
	if path == "" {
		return data, nil
	}

	keys := strings.Split(path, ":")
	for i, key := range keys {
		keys[i] = strings.ReplaceAll(strings.ReplaceAll(key, "~", "~0"), "/", "~1")
	}

	return query.Get(data, "/"+strings.Join(keys, "/"))
}

// Decode copies a loaded value into target. Fields are matched by their
// `mapstructure` tag, or case-insensitively by name. Strings are converted to
// durations, and numbers and bools are converted between each other and strings.
func Decode(input any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	err = decoder.Decode(input)
	if err != nil {
		return fmt.Errorf("decoding into %T: %w", target, err)
	}

	return nil
}
