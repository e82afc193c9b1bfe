package backend

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// MaxPriority is the highest priority a descriptor may declare.
const MaxPriority = 99

var (
	// ErrUnknownFileType is returned when no backend claims a file extension.
	ErrUnknownFileType = errors.New("unknown file type")

	// ErrUnknownProcessorType is returned when a forced type matches no backend.
	ErrUnknownProcessorType = errors.New("unknown processor type")

	// ErrUnknownParserType is an alias of ErrUnknownProcessorType.
	ErrUnknownParserType = ErrUnknownProcessorType

	// ErrNoInput is returned when neither a usable input nor a forced type was given.
	ErrNoInput = errors.New("either an input with a file extension or a forced type is required")

	// ErrNotDumpable is returned when a backend has no dump capability.
	ErrNotDumpable = errors.New("backend cannot dump data")

	// ErrInvalidDescriptor is returned when a descriptor misses mandatory fields.
	ErrInvalidDescriptor = errors.New("invalid backend descriptor")
)

// Backend parses a configuration document into a mapping.
type Backend interface {
	Loads(data []byte, opts Options) (map[string]any, error)
}

// Dumper serializes a mapping into a configuration document.
type Dumper interface {
	Dumps(data map[string]any, opts Options) ([]byte, error)
}

// StreamLoader is implemented by backends with a native streaming parser.
type StreamLoader interface {
	LoadStream(r io.Reader, opts Options) (map[string]any, error)
}

// OptionLister declares the keyword options a backend recognizes.
// Backends not implementing it receive no options at all.
type OptionLister interface {
	LoadOptions() []string
	DumpOptions() []string
}

// Descriptor identifies a backend and tells a registry how to build it.
type Descriptor struct {
	// Type is the format id, e.g. "json". Competing implementations share it.
	Type string
	// ComponentID is unique per implementation, e.g. "json.stdlib".
	ComponentID string
	// Priority orders competing implementations; higher wins. Range 0-99.
	Priority int
	// Extensions lists the file extensions, without dot, this backend claims.
	Extensions []string
	// Ordered reports whether loaded mappings keep document key order.
	Ordered bool
	// New builds a fresh backend instance.
	New func() Backend
}

// Validate checks mandatory fields.
func (d Descriptor) Validate() error {
	switch {
	case d.Type == "":
		return fmt.Errorf("%w: empty type", ErrInvalidDescriptor)
	case d.ComponentID == "":
		return fmt.Errorf("%w: empty component id (type %q)", ErrInvalidDescriptor, d.Type)
	case d.New == nil:
		return fmt.Errorf("%w: nil constructor for %q", ErrInvalidDescriptor, d.ComponentID)
	}

	return nil
}

// Normalized returns a copy with priority clamped to [0, MaxPriority] and
// extensions lowercased, stripped of dots and de-duplicated in order.
func (d Descriptor) Normalized() Descriptor {
	d.Priority = max(0, min(d.Priority, MaxPriority))

	exts := make([]string, 0, len(d.Extensions))

	for _, ext := range d.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext != "" && !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}

	d.Extensions = exts

	return d
}

// Claims reports whether the descriptor handles the extension.
func (d Descriptor) Claims(ext string) bool {
	return slices.Contains(d.Extensions, strings.ToLower(strings.TrimPrefix(ext, ".")))
}

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s (type=%s, priority=%d, extensions=%s)",
		d.ComponentID, d.Type, d.Priority, strings.Join(d.Extensions, ","))
}

// CanDump reports whether b implements Dumper.
func CanDump(b Backend) bool {
	_, ok := b.(Dumper)

	return ok
}
