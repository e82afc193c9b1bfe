// Package backend defines the contract every configuration format handler implements.
//
// A backend only has to parse bytes into a mapping. Everything else is composed
// from small capability interfaces checked at call time:
//   - Backend: Loads(data, opts) parses a whole document
//   - Dumper: Dumps(data, opts) serializes a mapping
//   - StreamLoader: LoadStream(r, opts) for formats with a native streaming parser
//   - OptionLister: declares the keyword options a backend understands
//
// The free functions Load and Dump turn these into path- and stream-aware
// operations, so a backend never deals with opening or closing files itself.
//
// # Descriptors
//
// A Descriptor announces a backend to a registry:
//
//	backend.Descriptor{
//	    Type:        "json",
//	    ComponentID: "json.stdlib",
//	    Priority:    40,
//	    Extensions:  []string{"json"},
//	    New:         func() backend.Backend { return json.New() },
//	}
//
// Several descriptors may share a Type or an extension. The registry resolves the
// tie by Priority (higher wins) and then by ComponentID.
package backend
