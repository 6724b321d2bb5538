// Package version provides centralized version information for stabl.
// This allows all packages to reference a single source of truth for version info.
package version

// These variables can be overridden at build time using ldflags:
//
//	go build -ldflags "-X stabl/internal/version.Version=0.4.0"
var (
	// Version is the semantic version of the stabl binary
	Version = "0.3.0"

	// Commit is the git commit hash the binary was built from
	Commit = "dev"
)
