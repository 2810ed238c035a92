// Package version exposes build-time version information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set at build time using -ldflags.
var (
	// Version is the semantic version of the application.
	Version = "dev"

	// GitCommit is the git commit hash the binary was built from.
	GitCommit = "unknown"
)

// Get returns the application version, falling back to module build
// info for plain `go install` builds.
func Get() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return Version
}

// Full returns the version with commit and platform detail.
func Full() string {
	out := fmt.Sprintf("assetforge %s", Get())
	if GitCommit != "unknown" && len(GitCommit) >= 7 {
		out += fmt.Sprintf(" (%s)", GitCommit[:7])
	}
	return fmt.Sprintf("%s %s %s/%s", out, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
