// Package version carries build identity, set via -ldflags at release time.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the current application version.
	Version = "dev"
	// GitSHA is the git commit SHA.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Banner returns the one-line identity string printed at startup, including
// the host platform the relay is running on.
func Banner() string {
	return fmt.Sprintf("rtcm-relay %s (%s, built %s) on %s/%s, %d cpu(s)",
		Version, GitSHA, BuildTime, runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
}
