// Package buildinfo reports which quill binary is running.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// ModulePath is reported when the binary carries no module information.
const ModulePath = "github.com/aidanlsb/quill"

// Set with -ldflags "-X github.com/aidanlsb/quill/internal/buildinfo.Version=..."
// for release builds. Empty for local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Info describes a build.
type Info struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
}

// Reader matches debug.ReadBuildInfo.
type Reader func() (*debug.BuildInfo, bool)

// Current resolves build information for the running binary.
func Current() Info {
	return Resolve(debug.ReadBuildInfo)
}

// Resolve merges module build settings with the ldflags values. Build
// settings win; ldflags fill in whatever the toolchain left blank.
func Resolve(read Reader) Info {
	info := Info{
		Version:    "devel",
		ModulePath: ModulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}

	var bi *debug.BuildInfo
	if read != nil {
		if got, ok := read(); ok {
			bi = got
		}
	}
	if bi != nil {
		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		info.Version = normalizeVersion(bi.Main.Version)
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		if v := setting(bi, "GOOS"); v != "" {
			info.GOOS = v
		}
		if v := setting(bi, "GOARCH"); v != "" {
			info.GOARCH = v
		}
		info.Commit = setting(bi, "vcs.revision")
		info.CommitTime = setting(bi, "vcs.time")
		info.Modified = strings.EqualFold(setting(bi, "vcs.modified"), "true")
	}

	if info.Version == "devel" && Version != "" {
		info.Version = normalizeVersion(Version)
	}
	if info.Commit == "" {
		info.Commit = Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = Date
	}
	return info
}

// Short is the one-word version string, with the commit prefix for
// development builds.
func (i Info) Short() string {
	if i.Version != "devel" || i.Commit == "" {
		return i.Version
	}
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Modified {
		return "devel-" + commit + "-dirty"
	}
	return "devel-" + commit
}

func normalizeVersion(v string) string {
	if v == "" || v == "(devel)" {
		return "devel"
	}
	return v
}

func setting(bi *debug.BuildInfo, key string) string {
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
