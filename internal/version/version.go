// Package version reports the build version of precon.
// Release builds set it with ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/precon-stats/internal/version.Version=v0.3.0 -X github.com/ramonehamilton/precon-stats/internal/version.Commit=abc123" ./cmd/precon
package version

import (
	"fmt"
	"runtime"
)

// Version is the release tag, "dev" for local builds.
var Version = "dev"

// Commit is the git commit the binary was built from.
var Commit = "unknown"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// String returns the full version line printed by `precon version`.
func String() string {
	return fmt.Sprintf("precon %s (commit %s, %s %s/%s)", Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
