package anyconf

//nolint:gochecknoglobals // set via ldflags at build time.
var (
	// Version is the library and CLI version, set via ldflags.
	Version = "dev"
	// Commit is the source revision, set via ldflags.
	Commit = "none"
	// CompiledAt is the build timestamp, set via ldflags.
	CompiledAt = "unknown"
)

// VersionString formats the build information for display.
func VersionString() string {
	return Version + " (commit " + Commit + ", built " + CompiledAt + ")"
}
