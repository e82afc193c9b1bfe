// Package yamlv3 provides the "yaml.v3" backend built on gopkg.in/yaml.v3.
//
// It competes with yaml.goccy for the yaml type at a lower priority. Select it
// explicitly with its component id when yaml.v3 semantics are needed.
package yamlv3

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/0xalexb/anyconf/backend"
)

const (
	// Type is the format id of this backend.
	Type = "yaml"
	// ComponentID identifies this implementation.
	ComponentID = "yaml.v3"
	// Priority is the default priority of this backend.
	Priority = 30
)

// ErrNotMapping is returned when the document is not a mapping.
var ErrNotMapping = errors.New("document is not a mapping")

// Backend implements backend.Backend, backend.StreamLoader and backend.Dumper.
type Backend struct{}

// New creates a new yaml.v3 backend.
func New() *Backend {
	return &Backend{}
}

// Descriptor returns the registry descriptor of this backend.
func Descriptor() backend.Descriptor {
	return backend.Descriptor{
		Type:        Type,
		ComponentID: ComponentID,
		Priority:    Priority,
		Extensions:  []string{"yaml", "yml"},
		Ordered:     false,
		New:         func() backend.Backend { return New() },
	}
}

// LoadOptions implements backend.OptionLister.
func (b *Backend) LoadOptions() []string {
	return []string{"strict"}
}

// DumpOptions implements backend.OptionLister.
func (b *Backend) DumpOptions() []string {
	return []string{"indent"}
}

// Loads implements backend.Backend.
func (b *Backend) Loads(data []byte, opts backend.Options) (map[string]any, error) {
	return b.LoadStream(bytes.NewReader(data), opts)
}

// LoadStream implements backend.StreamLoader. Only the first document of a stream is read.
func (b *Backend) LoadStream(r io.Reader, opts backend.Options) (map[string]any, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(opts.Bool("strict", false))

	var doc any

	err := decoder.Decode(&doc)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}

		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	if doc == nil {
		return map[string]any{}, nil
	}

	mapping, ok := backend.Normalize(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, doc)
	}

	return mapping, nil
}

// Dumps implements backend.Dumper.
func (b *Backend) Dumps(data map[string]any, opts backend.Options) ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(opts.Int("indent", 2))

	err := encoder.Encode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}

	return buf.Bytes(), nil
}
