// Package file provides a file-based Source implementation for the config package.
//
// Files are loaded through an anyconf.Loader, so any registered format works
// and several files, glob patterns or directories can be merged into one
// configuration. Inputs are loaded at construction time and cached, meaning
// subsequent calls to Fetch() return the same data without re-reading the
// filesystem.
//
// Usage:
//
//	source, err := file.NewSource([]string{"/etc/app/config.yaml", "/etc/app/conf.d"})(anyconf.Default())
//	if err != nil {
//	    // Handle error: file not found, unknown format, parse error, etc.
//	}
//	data, err := source.Fetch()
//
// Error Handling:
//   - Construction returns error if an input cannot be loaded
//   - Errors include the inputs for easier debugging
//   - Use errors.Is(err, file.ErrNoInputs) when no input was given
package file
