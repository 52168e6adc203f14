// Package version holds build metadata stamped at link time.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info returns a human-readable version line for the CLI.
func Info() string {
	return fmt.Sprintf("GamePulse %s (commit %s, built %s)", Version, Commit, Date)
}

// Short returns just the version string.
func Short() string {
	return Version
}

// Map returns all build metadata for API responses.
func Map() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
	}
}
