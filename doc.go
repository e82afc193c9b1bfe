// Package anyconf loads, merges and dumps configuration in any registered format.
//
// A Loader resolves a backend for every input, either from the file extension
// or from a forced type, parses it into a map[string]any, folds several inputs
// together with a merge strategy and optionally validates, queries or renders
// the result through pluggable collaborators.
//
// Basic usage:
//
//	cfg, err := anyconf.Load("conf.d/*.yml", anyconf.WithMergeStrategy(merge.MergeDictsAndLists))
//	if err != nil {
//		return err
//	}
//
//	err = anyconf.Dump(cfg, "out.json")
//
// The package level functions use a Loader built on the process-wide
// registry.Default. Tests and applications that need isolation build their own:
//
//	reg := registry.New(builtin.Descriptors()...)
//	loader := anyconf.New(anyconf.WithRegistry(reg))
//
// Supported formats out of the box:
//   - json (encoding/json, tailscale/hujson for comments and trailing commas)
//   - yaml (goccy/go-yaml, gopkg.in/yaml.v3)
//   - toml (pelletier/go-toml/v2)
//   - properties (magiconair/properties)
//   - shellvars (subosito/gotenv), for .env files
//
// Further formats are added by registering backend.Descriptor values, either
// directly or through registry.RegisterDiscoverer.
package anyconf
