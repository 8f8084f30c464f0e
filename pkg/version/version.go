// Package version holds build information, set with -ldflags at build time.
package version

var (
	// Version is the release of calibrate-racks.
	Version = "v0.0.0"
	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
)
