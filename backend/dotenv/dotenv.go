// Package dotenv provides the "shellvars.gotenv" backend for shell variable
// files (KEY=value lines), built on github.com/subosito/gotenv.
package dotenv

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/subosito/gotenv"

	"github.com/0xalexb/anyconf/backend"
)

const (
	// Type is the format id of this backend.
	Type = "shellvars"
	// ComponentID identifies this implementation.
	ComponentID = "shellvars.gotenv"
	// Priority is the default priority of this backend.
	Priority = 40
)

// ErrNestedValue is returned when a nested mapping or list is dumped.
var ErrNestedValue = errors.New("shell variable values must be scalars")

// Backend implements backend.Backend, backend.StreamLoader and backend.Dumper.
type Backend struct{}

// New creates a new shell variables backend.
func New() *Backend {
	return &Backend{}
}

// Descriptor returns the registry descriptor of this backend.
func Descriptor() backend.Descriptor {
	return backend.Descriptor{
		Type:        Type,
		ComponentID: ComponentID,
		Priority:    Priority,
		Extensions:  []string{"env", "sh"},
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
	return nil
}

// Loads implements backend.Backend.
func (b *Backend) Loads(data []byte, opts backend.Options) (map[string]any, error) {
	return b.LoadStream(bytes.NewReader(data), opts)
}

// LoadStream implements backend.StreamLoader. With "strict" set, malformed lines fail.
func (b *Backend) LoadStream(r io.Reader, opts backend.Options) (map[string]any, error) {
	var env gotenv.Env

	if opts.Bool("strict", false) {
		parsed, err := gotenv.StrictParse(r)
		if err != nil {
			return nil, fmt.Errorf("decoding shell variables: %w", err)
		}

		env = parsed
	} else {
		env = gotenv.Parse(r)
	}

	doc := make(map[string]any, len(env))
	for key, val := range env {
		doc[key] = val
	}

	return doc, nil
}

// Dumps implements backend.Dumper.
func (b *Backend) Dumps(data map[string]any, _ backend.Options) ([]byte, error) {
	env := make(gotenv.Env, len(data))

	for key, val := range data {
		switch val.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("%w: key %q holds %T", ErrNestedValue, key, val)
		}

		env[key] = fmt.Sprint(val)
	}

	out, err := gotenv.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding shell variables: %w", err)
	}

	return []byte(out + "\n"), nil
}
