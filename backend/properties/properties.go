// Package properties provides the "properties.magiconair" backend for Java-style
// .properties files, built on github.com/magiconair/properties.
//
// Properties are flat: keys map to string values. Dumping a nested mapping fails.
package properties

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/magiconair/properties"

	"github.com/0xalexb/anyconf/backend"
)

const (
	// Type is the format id of this backend.
	Type = "properties"
	// ComponentID identifies this implementation.
	ComponentID = "properties.magiconair"
	// Priority is the default priority of this backend.
	Priority = 40
)

// ErrNestedValue is returned when a nested mapping or list is dumped.
var ErrNestedValue = errors.New("properties values must be scalars")

// Backend implements backend.Backend and backend.Dumper for properties files.
type Backend struct{}

// New creates a new properties backend.
func New() *Backend {
	return &Backend{}
}

// Descriptor returns the registry descriptor of this backend.
func Descriptor() backend.Descriptor {
	return backend.Descriptor{
		Type:        Type,
		ComponentID: ComponentID,
		Priority:    Priority,
		Extensions:  []string{"properties", "props"},
		Ordered:     false,
		New:         func() backend.Backend { return New() },
	}
}

// LoadOptions implements backend.OptionLister.
func (b *Backend) LoadOptions() []string {
	return []string{"expand"}
}

// DumpOptions implements backend.OptionLister.
func (b *Backend) DumpOptions() []string {
	return nil
}

// Loads implements backend.Backend. ${key} expansion is off unless "expand" is set.
func (b *Backend) Loads(data []byte, opts backend.Options) (map[string]any, error) {
	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: !opts.Bool("expand", false),
	}

	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}

	doc := make(map[string]any, props.Len())
	for _, key := range props.Keys() {
		doc[key], _ = props.Get(key)
	}

	return doc, nil
}

// Dumps implements backend.Dumper.
func (b *Backend) Dumps(data map[string]any, _ backend.Options) ([]byte, error) {
	props := properties.NewProperties()
	props.DisableExpansion = true

	for key, val := range data {
		switch val.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("%w: key %q holds %T", ErrNestedValue, key, val)
		}

		_, _, err := props.Set(key, fmt.Sprint(val))
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", key, err)
		}
	}

	props.Sort()

	var buf bytes.Buffer

	_, err := props.Write(&buf, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("encoding properties: %w", err)
	}

	return buf.Bytes(), nil
}
