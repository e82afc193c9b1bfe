// Package json provides the "json.stdlib" backend built on encoding/json.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/0xalexb/anyconf/backend"
)

const (
	// Type is the format id of this backend.
	Type = "json"
	// ComponentID identifies this implementation.
	ComponentID = "json.stdlib"
	// Priority is the default priority of this backend.
	Priority = 40
)

// ErrTrailingData is returned when a document is followed by more content.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Backend implements backend.Backend, backend.Dumper and backend.StreamLoader for JSON.
type Backend struct{}

// New creates a new JSON backend.
func New() *Backend {
	return &Backend{}
}

// Descriptor returns the registry descriptor of this backend.
func Descriptor() backend.Descriptor {
	return backend.Descriptor{
		Type:        Type,
		ComponentID: ComponentID,
		Priority:    Priority,
		Extensions:  []string{"json"},
		Ordered:     false,
		New:         func() backend.Backend { return New() },
	}
}

// LoadOptions implements backend.OptionLister.
func (b *Backend) LoadOptions() []string {
	return []string{"use_number"}
}

// DumpOptions implements backend.OptionLister.
func (b *Backend) DumpOptions() []string {
	return []string{"indent", "prefix"}
}

// Loads implements backend.Backend.
func (b *Backend) Loads(data []byte, opts backend.Options) (map[string]any, error) {
	return b.LoadStream(bytes.NewReader(data), opts)
}

// LoadStream implements backend.StreamLoader.
//
// Numbers load as int when integral and float64 otherwise. With the
// "use_number" option they are kept as json.Number.
func (b *Backend) LoadStream(r io.Reader, opts backend.Options) (map[string]any, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var doc map[string]any

	err := decoder.Decode(&doc)
	if err != nil {
		if err == io.EOF { //nolint:errorlint // Decode returns io.EOF unwrapped
			return map[string]any{}, nil
		}

		return nil, fmt.Errorf("decoding json: %w", err)
	}

	err = decoder.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding json: %w", ErrTrailingData)
	}

	if opts.Bool("use_number", false) {
		if doc == nil {
			return map[string]any{}, nil
		}

		return doc, nil
	}

	return backend.NormalizeMap(doc), nil
}

// Dumps implements backend.Dumper.
func (b *Backend) Dumps(data map[string]any, opts backend.Options) ([]byte, error) {
	indent := opts.Int("indent", 0)

	var (
		out []byte
		err error
	)

	if indent > 0 {
		out, err = json.MarshalIndent(data, opts.String("prefix", ""), strings.Repeat(" ", indent))
	} else {
		out, err = json.Marshal(data)
	}

	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}

	return append(out, '\n'), nil
}
