// Package toml provides the "toml.gotoml" backend built on github.com/pelletier/go-toml/v2.
package toml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/0xalexb/anyconf/backend"
)

const (
	// Type is the format id of this backend.
	Type = "toml"
	// ComponentID identifies this implementation.
	ComponentID = "toml.gotoml"
	// Priority is the default priority of this backend.
	Priority = 40
)

// Backend implements backend.Backend and backend.Dumper for TOML.
type Backend struct{}

// New creates a new TOML backend.
func New() *Backend {
	return &Backend{}
}

// Descriptor returns the registry descriptor of this backend.
func Descriptor() backend.Descriptor {
	return backend.Descriptor{
		Type:        Type,
		ComponentID: ComponentID,
		Priority:    Priority,
		Extensions:  []string{"toml"},
		Ordered:     false,
		New:         func() backend.Backend { return New() },
	}
}

// LoadOptions implements backend.OptionLister.
func (b *Backend) LoadOptions() []string {
	return nil
}

// DumpOptions implements backend.OptionLister.
func (b *Backend) DumpOptions() []string {
	return []string{"indent"}
}

// Loads implements backend.Backend.
func (b *Backend) Loads(data []byte, _ backend.Options) (map[string]any, error) {
	doc := map[string]any{}

	err := toml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("decoding toml: %w", err)
	}

	return backend.NormalizeMap(doc), nil
}

// Dumps implements backend.Dumper.
func (b *Backend) Dumps(data map[string]any, opts backend.Options) ([]byte, error) {
	var buf bytes.Buffer

	encoder := toml.NewEncoder(&buf)
	if indent := opts.Int("indent", 0); indent > 0 {
		encoder.SetIndentSymbol(strings.Repeat(" ", indent))
		encoder.SetIndentTables(true)
	}

	err := encoder.Encode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding toml: %w", err)
	}

	return buf.Bytes(), nil
}
