// Package version reports the rue build version.
//
// Release builds stamp it through ldflags:
//
//	go build -ldflags="-X github.com/muurk/rue/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/rue/internal/version.Commit=abc1234" ./cmd/rue
//
// Otherwise the VCS stamp embedded by the Go toolchain is used, and failing
// that "dev".
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

var (
	// Version is the release tag
	Version = ""
	// Commit is the short git revision
	Commit = ""
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildSettings(info.Settings)
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildSettings fills unset fields from the toolchain's vcs.* settings
func fromBuildSettings(settings []debug.BuildSetting) {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	if rev := vcs["vcs.revision"]; Commit == "" && rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if vcs["vcs.modified"] == "true" {
			rev += "-dirty"
		}
		Commit = rev
	}

	if Version == "" {
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			Version = "dev-" + t.UTC().Format("20060102")
		}
	}
}

// Full returns the version with its commit, e.g. "v0.3.0 (commit: abc1234)"
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
