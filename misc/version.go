// Package misc holds program identity information.
package misc

import (
	"runtime/debug"
)

const appName = "spxh"

// set with -ldflags during release builds
var (
	version = ""
	githash = ""
)

func GetAppName() string {
	return appName
}

// GetVersion returns release version or module version from build info.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns VCS revision the binary was built from, if known.
func GetGitHash() string {
	if len(githash) > 0 {
		return githash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				if len(s.Value) > 7 {
					return s.Value[:7]
				}
				return s.Value
			}
		}
	}
	return "unknown"
}
