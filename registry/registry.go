package registry

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/0xalexb/anyconf/backend"
	"github.com/0xalexb/anyconf/backend/builtin"
)

// Registry is a concurrency-safe set of backend descriptors keyed by component id.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]backend.Descriptor
	order   []string
}

// New creates a registry holding the given descriptors.
// Invalid descriptors are logged and skipped.
func New(descriptors ...backend.Descriptor) *Registry {
	reg := &Registry{
		entries: make(map[string]backend.Descriptor, len(descriptors)),
		order:   make([]string, 0, len(descriptors)),
	}

	for _, desc := range descriptors {
		err := reg.Register(desc)
		if err != nil {
			slog.Warn("skipping backend descriptor", slog.String("error", err.Error()))
		}
	}

	return reg
}

//nolint:gochecknoglobals // lazily built process-wide registry.
var defaultRegistry = sync.OnceValue(func() *Registry {
	reg := New(builtin.Descriptors()...)
	reg.LoadPlugins()

	return reg
})

// Default returns the process-wide registry, built on first use.
func Default() *Registry {
	return defaultRegistry()
}

// Register adds desc unless its component id is already present.
// Re-registration is a no-op. An error is returned only for invalid descriptors.
func (r *Registry) Register(desc backend.Descriptor) error {
	err := desc.Validate()
	if err != nil {
		return err
	}

	desc = desc.Normalized()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[desc.ComponentID]; exists {
		return nil
	}

	r.entries[desc.ComponentID] = desc
	r.order = append(r.order, desc.ComponentID)

	return nil
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// List returns all descriptors in registration order.
func (r *Registry) List() []backend.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]backend.Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}

	return out
}

// ListSorted returns all descriptors sorted by type, then priority desc, then component id.
func (r *Registry) ListSorted() []backend.Descriptor {
	out := r.List()
	slices.SortStableFunc(out, func(a, b backend.Descriptor) int {
		return cmp.Or(cmp.Compare(a.Type, b.Type), byPriority(a, b))
	})

	return out
}

// ListByType groups descriptors by type, each group sorted by priority desc.
func (r *Registry) ListByType() map[string][]backend.Descriptor {
	groups := make(map[string][]backend.Descriptor)

	for _, desc := range r.List() {
		groups[desc.Type] = append(groups[desc.Type], desc)
	}

	for _, group := range groups {
		slices.SortStableFunc(group, byPriority)
	}

	return groups
}

// ListByExtension groups descriptors by claimed extension, each group sorted by priority desc.
// A descriptor appears once under each extension it claims.
func (r *Registry) ListByExtension() map[string][]backend.Descriptor {
	groups := make(map[string][]backend.Descriptor)

	for _, desc := range r.List() {
		for _, ext := range desc.Extensions {
			groups[ext] = append(groups[ext], desc)
		}
	}

	for _, group := range groups {
		slices.SortStableFunc(group, byPriority)
	}

	return groups
}

// Types returns the sorted list of known type ids.
func (r *Registry) Types() []string {
	groups := r.ListByType()

	types := make([]string, 0, len(groups))
	for typ := range groups {
		types = append(types, typ)
	}

	slices.Sort(types)

	return types
}

// FindByType returns the highest priority descriptor of the type.
func (r *Registry) FindByType(typ string) (backend.Descriptor, error) {
	best, ok := r.best(func(desc backend.Descriptor) bool { return desc.Type == typ })
	if !ok {
		return backend.Descriptor{}, fmt.Errorf("%w: %q", backend.ErrUnknownProcessorType, typ)
	}

	return best, nil
}

// FindByExtension returns the highest priority descriptor claiming ext.
func (r *Registry) FindByExtension(ext string) (backend.Descriptor, error) {
	best, ok := r.best(func(desc backend.Descriptor) bool { return desc.Claims(ext) })
	if !ok {
		return backend.Descriptor{}, fmt.Errorf("%w: %q", backend.ErrUnknownFileType, ext)
	}

	return best, nil
}

// FindByComponentID returns the descriptor registered under id.
func (r *Registry) FindByComponentID(id string) (backend.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.entries[id]
	if !ok {
		return backend.Descriptor{}, fmt.Errorf("%w: %q", backend.ErrUnknownProcessorType, id)
	}

	return desc, nil
}

// best returns the first descriptor matching pred in priority order.
func (r *Registry) best(pred func(backend.Descriptor) bool) (backend.Descriptor, bool) {
	var (
		found backend.Descriptor
		ok    bool
	)

	for _, desc := range r.List() {
		if !pred(desc) {
			continue
		}

		if !ok || byPriority(desc, found) < 0 {
			found, ok = desc, true
		}
	}

	return found, ok
}

// byPriority orders higher priority first, ties by component id ascending.
func byPriority(a, b backend.Descriptor) int {
	return cmp.Or(cmp.Compare(b.Priority, a.Priority), cmp.Compare(a.ComponentID, b.ComponentID))
}
