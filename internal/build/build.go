// Package build holds build-time information stamped by the linker.
package build

var (
	// Version is the launcher version, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the build date.
	Date = "unknown"
)

