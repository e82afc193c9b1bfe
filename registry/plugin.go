package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/0xalexb/anyconf/backend"
)

// Discoverer returns the backend descriptors a plugin provides.
type Discoverer func() ([]backend.Descriptor, error)

//nolint:gochecknoglobals // plugin discovery is process-wide by nature.
var (
	discoverersMu sync.RWMutex
	discoverers   = map[string]Discoverer{}
)

// RegisterDiscoverer announces a plugin. Call it from the plugin package's init.
// Registering the same name again replaces the earlier discoverer.
func RegisterDiscoverer(name string, discover Discoverer) {
	if name == "" || discover == nil {
		return
	}

	discoverersMu.Lock()
	defer discoverersMu.Unlock()

	discoverers[name] = discover
}

// UnregisterDiscoverer removes a plugin announced with RegisterDiscoverer.
func UnregisterDiscoverer(name string) {
	discoverersMu.Lock()
	defer discoverersMu.Unlock()

	delete(discoverers, name)
}

// LoadPlugins runs every announced discoverer and registers the descriptors they return.
// It returns the number of newly registered descriptors. Safe to call repeatedly.
func (r *Registry) LoadPlugins() int {
	discoverersMu.RLock()

	names := make([]string, 0, len(discoverers))
	for name := range discoverers {
		names = append(names, name)
	}

	found := make(map[string]Discoverer, len(names))
	for _, name := range names {
		found[name] = discoverers[name]
	}

	discoverersMu.RUnlock()

	slices.Sort(names)

	before := r.Len()

	for _, name := range names {
		descriptors, err := discover(found[name])
		if err != nil {
			slog.Warn("failed to load plugin", slog.String("plugin", name), slog.String("error", err.Error()))

			continue
		}

		for _, desc := range descriptors {
			err := r.Register(desc)
			if err != nil {
				slog.Warn("skipping plugin backend",
					slog.String("plugin", name), slog.String("error", err.Error()))
			}
		}
	}

	added := r.Len() - before
	if added > 0 {
		slog.Debug("plugins loaded", slog.Int("backends", added))
	}

	return added
}

// discover calls fn, turning a panic into an error.
func discover(fn Discoverer) (descriptors []backend.Descriptor, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("plugin panicked: %v", rec)
		}
	}()

	return fn()
}
