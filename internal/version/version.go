package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Build metadata for the wscheck CLI. Override with -ldflags "-X".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is the version metadata printed by `wscheck version`.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

// Current returns the linked-in metadata. A missing commit is filled from
// the VCS stamp the Go toolchain embeds, when present.
func Current() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}
	return info
}

// String renders "wscheck 0.1.0 (abc1234, 2024-01-15)".
func (i Info) String() string {
	var extra []string
	if i.GitCommit != "" {
		extra = append(extra, shortCommit(i.GitCommit))
	}
	if i.BuildDate != "" {
		extra = append(extra, i.BuildDate)
	}
	if len(extra) == 0 {
		return "wscheck " + i.Version
	}
	return fmt.Sprintf("wscheck %s (%s)", i.Version, strings.Join(extra, ", "))
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
