// Package version holds build metadata injected via ldflags.
package version

import "fmt"

// Injected at build time:
//
//	go build -ldflags "-X github.com/terrainlab/terrain-mcp/internal/version.Version=v0.3.0 ..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns a human-readable version line.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)
}
