// Package version carries build metadata, set at link time with
// -ldflags "-X github.com/banshee-data/l1track/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for the CLI.
func String() string {
	return fmt.Sprintf("%s (%s, built %s) %s/%s", Version, GitSHA, BuildTime, runtime.GOOS, runtime.GOARCH)
}
