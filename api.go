package anyconf

import (
	"sync"
)

//nolint:gochecknoglobals // lazily built process-wide loader.
var defaultLoader = sync.OnceValue(func() *Loader {
	return New()
})

// Default returns the process-wide Loader built on registry.Default.
func Default() *Loader {
	return defaultLoader()
}

// SingleLoad loads one input with the default Loader.
func SingleLoad(input any, opts ...CallOption) (map[string]any, error) {
	return Default().SingleLoad(input, opts...)
}

// MultiLoad expands and merges inputs with the default Loader.
func MultiLoad(inputs any, opts ...CallOption) (map[string]any, error) {
	return Default().MultiLoad(inputs, opts...)
}

// Load loads one or many inputs with the default Loader.
func Load(input any, opts ...CallOption) (map[string]any, error) {
	return Default().Load(input, opts...)
}

// Loads parses in-memory content with the default Loader.
func Loads(content string, opts ...CallOption) (map[string]any, error) {
	return Default().Loads(content, opts...)
}

// Dump writes data to out with the default Loader.
func Dump(data map[string]any, out any, opts ...CallOption) error {
	return Default().Dump(data, out, opts...)
}

// Dumps serializes data with the default Loader.
func Dumps(data map[string]any, opts ...CallOption) ([]byte, error) {
	return Default().Dumps(data, opts...)
}
