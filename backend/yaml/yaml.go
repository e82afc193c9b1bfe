package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/anyconf/backend"
)

const (
	// Type is the format id of this backend.
	Type = "yaml"
	// ComponentID identifies this implementation.
	ComponentID = "yaml.goccy"
	// Priority is the default priority of this backend.
	Priority = 40
)

// ErrPathNotFound is returned when the "path" option names a missing section.
var ErrPathNotFound = errors.New("path not found")

// ErrNotMapping is returned when the document (or selected section) is not a mapping.
var ErrNotMapping = errors.New("document is not a mapping")

// Backend implements backend.Backend and backend.Dumper for YAML.
type Backend struct{}

// New creates a new YAML backend instance.
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
	return []string{"strict", "path"}
}

// DumpOptions implements backend.OptionLister.
func (b *Backend) DumpOptions() []string {
	return []string{"indent", "flow"}
}

// Loads implements backend.Backend.
// Empty documents load as an empty mapping.
func (b *Backend) Loads(data []byte, opts backend.Options) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	var doc any

	path := opts.String("path", "")
	if path == "" {
		var decodeOpts []yaml.DecodeOption
		if opts.Bool("strict", false) {
			decodeOpts = append(decodeOpts, yaml.Strict())
		}

		err := yaml.UnmarshalWithOptions(data, &doc, decodeOpts...)
		if err != nil {
			return nil, fmt.Errorf("unmarshal error: %w", err)
		}
	} else {
		err := readPath(data, path, &doc)
		if err != nil {
			return nil, err
		}
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
	encodeOpts := []yaml.EncodeOption{yaml.Indent(opts.Int("indent", 2))}
	if opts.Bool("flow", false) {
		encodeOpts = append(encodeOpts, yaml.Flow(true))
	}

	out, err := yaml.MarshalWithOptions(data, encodeOpts...)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return out, nil
}

func readPath(data []byte, path string, target any) error {
	yamlPath := convertToYAMLPath(path)

	pathObj, err := yaml.PathString(yamlPath)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	err = pathObj.Read(bytes.NewReader(data), target)
	if err != nil {
		if yaml.IsNotFoundNodeError(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		return fmt.Errorf("reading path %q: %w", path, err)
	}

	return nil
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
func convertToYAMLPath(path string) string {
	return "$." + strings.Join(strings.Split(path, ":"), ".")
}
