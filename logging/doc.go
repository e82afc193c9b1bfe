// Package logging builds the slog.Logger used by anyconf and its command line tool.
// Records are written as JSON by default, or as logfmt style text when requested.
package logging
