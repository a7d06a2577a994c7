// Package version reports build information for binaries built from this module.
package version

import (
	"runtime/debug"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/kbukum/tinydi/version.Version=v1.2.0"
var (
	Version   = "dev"
	GitCommit = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// Get returns build information, falling back to the VCS stamp embedded by
// the Go toolchain when ldflags were not set.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// String formats the version as "v1.2.0-abc1234[-dirty]".
func (i Info) String() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}
