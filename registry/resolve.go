package registry

import (
	"fmt"

	"github.com/0xalexb/anyconf/backend"
	"github.com/0xalexb/anyconf/ioinfo"
)

// ForcedType overrides extension based detection. The variants are
// TypeName, ComponentID and the value returned by Use. A nil ForcedType means
// auto-detection.
type ForcedType interface {
	forcedType()
}

// TypeName forces a backend by format id, e.g. "json".
type TypeName string

func (TypeName) forcedType() {}

// ComponentID forces one exact implementation, e.g. "json.stdlib".
type ComponentID string

func (ComponentID) forcedType() {}

// Preresolved carries a backend instance the caller already holds.
type Preresolved struct {
	Backend backend.Backend
}

func (Preresolved) forcedType() {}

// Use wraps an existing backend instance so Resolve returns it unchanged.
func Use(b backend.Backend) Preresolved {
	return Preresolved{Backend: b}
}

// ParseForcedType interprets a user supplied string: a registered component id
// selects that implementation, anything else is treated as a type id.
// An empty string means auto-detection.
func (r *Registry) ParseForcedType(s string) ForcedType {
	if s == "" {
		return nil
	}

	if _, err := r.FindByComponentID(s); err == nil {
		return ComponentID(s)
	}

	return TypeName(s)
}

// ResolveDescriptor finds the descriptor for info and forced. Pre-resolved
// backends have no descriptor; use Resolve for those.
func (r *Registry) ResolveDescriptor(info ioinfo.Info, forced ForcedType) (backend.Descriptor, error) {
	switch typed := forced.(type) {
	case TypeName:
		desc, err := r.FindByType(string(typed))
		if err == nil {
			return desc, nil
		}

		byID, idErr := r.FindByComponentID(string(typed))
		if idErr == nil {
			return byID, nil
		}

		return backend.Descriptor{}, err
	case ComponentID:
		return r.FindByComponentID(string(typed))
	case nil:
		if info.Kind == ioinfo.KindNone || (info.Kind == ioinfo.KindStream && info.Extension == "") {
			return backend.Descriptor{}, backend.ErrNoInput
		}

		if info.Extension == "" {
			return backend.Descriptor{}, fmt.Errorf("%w: %s has no file extension", backend.ErrUnknownFileType, info)
		}

		return r.FindByExtension(info.Extension)
	default:
		return backend.Descriptor{}, fmt.Errorf("%w: unsupported forced type %T", backend.ErrUnknownProcessorType, forced)
	}
}

// Resolve returns a backend instance for info and forced.
func (r *Registry) Resolve(info ioinfo.Info, forced ForcedType) (backend.Backend, error) {
	if pre, ok := forced.(Preresolved); ok {
		if pre.Backend == nil {
			return nil, fmt.Errorf("%w: nil pre-resolved backend", backend.ErrNoInput)
		}

		return pre.Backend, nil
	}

	desc, err := r.ResolveDescriptor(info, forced)
	if err != nil {
		return nil, err
	}

	return desc.New(), nil
}

// ResolveFor is Resolve for an unnormalized source such as a path string or stream.
func (r *Registry) ResolveFor(src any, forced ForcedType) (backend.Backend, error) {
	info, err := ioinfo.Make(src)
	if err != nil {
		return nil, err
	}

	return r.Resolve(info, forced)
}
