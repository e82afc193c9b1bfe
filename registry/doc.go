// Package registry keeps the set of known format backends and resolves which
// one handles a given input.
//
// # Registry
//
// A Registry owns a componentID -> Descriptor map. Views by type and by file
// extension are computed on demand, sorted by priority (highest first) with the
// component id as tie-breaker, so lookups are deterministic even when several
// backends compete for the same format:
//
//	reg := registry.New(builtin.Descriptors()...)
//	desc, err := reg.FindByExtension("json") // json.stdlib, priority 40
//
// Register is idempotent per component id. Re-registering an id is a silent no-op.
//
// # Resolution
//
// Resolve turns an ioinfo.Info and an optional ForcedType into a backend instance:
//
//  1. Use(b): the pre-resolved backend b is returned as is
//  2. TypeName / ComponentID: looked up explicitly
//  3. nil: the input's file extension is looked up
//
// # Plugins
//
// Packages shipping extra backends call RegisterDiscoverer from init. LoadPlugins
// asks every discoverer for descriptors and registers them. A failing or
// panicking discoverer is logged and skipped.
//
// # Default registry
//
// Default returns a process-wide registry built on first use from the built-in
// backends plus discovered plugins. Tests should build their own with New.
package registry
