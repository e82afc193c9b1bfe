// Package hujson provides the "json.hujson" backend for JSON with comments and
// trailing commas (JWCC), built on github.com/tailscale/hujson.
//
// It competes with json.stdlib for the "json" type at a lower priority and is the
// only backend claiming the "jsonc" and "hujson" extensions.
package hujson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/0xalexb/anyconf/backend"
)

const (
	// Type is the format id of this backend.
	Type = "json"
	// ComponentID identifies this implementation.
	ComponentID = "json.hujson"
	// Priority is the default priority of this backend.
	Priority = 30
)

// Backend implements backend.Backend and backend.Dumper for JWCC documents.
type Backend struct{}

// New creates a new hujson backend.
func New() *Backend {
	return &Backend{}
}

// Descriptor returns the registry descriptor of this backend.
func Descriptor() backend.Descriptor {
	return backend.Descriptor{
		Type:        Type,
		ComponentID: ComponentID,
		Priority:    Priority,
		Extensions:  []string{"json", "jsonc", "hujson"},
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
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}

	standard, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing hujson: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(standard))
	decoder.UseNumber()

	var doc map[string]any

	err = decoder.Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("decoding hujson: %w", err)
	}

	return backend.NormalizeMap(doc), nil
}

// Dumps implements backend.Dumper. Output is formatted by hujson.Format unless
// an explicit indent is requested.
func (b *Backend) Dumps(data map[string]any, opts backend.Options) ([]byte, error) {
	if indent := opts.Int("indent", 0); indent > 0 {
		out, err := json.MarshalIndent(data, "", strings.Repeat(" ", indent))
		if err != nil {
			return nil, fmt.Errorf("encoding hujson: %w", err)
		}

		return append(out, '\n'), nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding hujson: %w", err)
	}

	formatted, err := hujson.Format(raw)
	if err != nil {
		return nil, fmt.Errorf("formatting hujson: %w", err)
	}

	return formatted, nil
}
