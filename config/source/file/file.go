package file

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/0xalexb/anyconf"
	"github.com/0xalexb/anyconf/merge"
)

// ErrNoInputs is returned when a Source is built without any input.
var ErrNoInputs = errors.New("no configuration inputs given")

// Source implements config.Source for file-based configuration.
// It loads its inputs at construction time and caches the merged result.
type Source struct {
	inputs []string
	data   map[string]any
}

// NewSource returns a constructor function that creates a file-based Source
// from the given inputs. Inputs are paths, glob patterns or directories and are
// merged in order with opts applied to the load. The constructor takes the
// Loader to use, so under Fx it is satisfied by anyconf.Module.
func NewSource(inputs []string, opts ...anyconf.CallOption) func(*anyconf.Loader) (*Source, error) {
	return func(loader *anyconf.Loader) (*Source, error) {
		if len(inputs) == 0 {
			return nil, ErrNoInputs
		}

		cleaned := make([]string, len(inputs))
		for i, input := range inputs {
			cleaned[i] = filepath.Clean(input)
		}

		data, err := loader.MultiLoad(cleaned, opts...)
		if err != nil {
			return nil, fmt.Errorf("loading %v: %w", cleaned, err)
		}

		if data == nil {
			return nil, fmt.Errorf("loading %v: %w", cleaned, anyconf.ErrValidation)
		}

		return &Source{
			inputs: cleaned,
			data:   data,
		}, nil
	}
}

// Inputs returns the cleaned inputs the Source was built from.
func (s *Source) Inputs() []string {
	return append([]string(nil), s.inputs...)
}

// Fetch returns a copy of the cached configuration that was loaded at construction time.
// A copy is returned to prevent callers from mutating the cached data.
func (s *Source) Fetch() (map[string]any, error) {
	return merge.Merged(nil, s.data, merge.Replace)
}
