// Package version carries build metadata stamped in at link time.
package version

import "fmt"

// Overridden via -ldflags "-X github.com/eraxe/kayland/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String renders the full version line shown by --version and the
// daemon status endpoint.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}
