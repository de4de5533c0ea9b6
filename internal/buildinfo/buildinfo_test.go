package buildinfo

import (
	"runtime"
	"runtime/debug"
	"testing"
)

func withLdflags(t *testing.T, version, commit, date string) {
	t.Helper()
	prevVersion, prevCommit, prevDate := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() {
		Version, Commit, Date = prevVersion, prevCommit, prevDate
	})
}

func TestResolveFromBuildInfo(t *testing.T) {
	withLdflags(t, "", "", "")

	info := Resolve(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.23.4",
			Main: debug.Module{
				Path:    "example.com/fork/quill",
				Version: "v1.2.3",
			},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
				{Key: "GOOS", Value: "windows"},
				{Key: "GOARCH", Value: "amd64"},
			},
		}, true
	})

	want := Info{
		Version:    "v1.2.3",
		ModulePath: "example.com/fork/quill",
		Commit:     "abc123",
		CommitTime: "2026-02-14T17:00:00Z",
		Modified:   true,
		GoVersion:  "go1.23.4",
		GOOS:       "windows",
		GOARCH:     "amd64",
	}
	if info != want {
		t.Fatalf("Resolve() = %+v, want %+v", info, want)
	}
}

func TestResolveWithoutBuildInfo(t *testing.T) {
	withLdflags(t, "", "", "")

	info := Resolve(func() (*debug.BuildInfo, bool) { return nil, false })

	if info.Version != "devel" {
		t.Errorf("Version = %q, want devel", info.Version)
	}
	if info.ModulePath != ModulePath {
		t.Errorf("ModulePath = %q, want %q", info.ModulePath, ModulePath)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.GOOS != runtime.GOOS || info.GOARCH != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", info.GOOS, info.GOARCH, runtime.GOOS, runtime.GOARCH)
	}
}

func TestResolveLdflagsFallback(t *testing.T) {
	withLdflags(t, "v0.9.0", "fedcba9876543210", "2026-03-01")

	info := Resolve(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	})

	if info.Version != "v0.9.0" {
		t.Errorf("Version = %q, want v0.9.0", info.Version)
	}
	if info.Commit != "fedcba9876543210" {
		t.Errorf("Commit = %q", info.Commit)
	}
	if info.CommitTime != "2026-03-01" {
		t.Errorf("CommitTime = %q", info.CommitTime)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"release", Info{Version: "v1.0.0", Commit: "abc"}, "v1.0.0"},
		{"devel without commit", Info{Version: "devel"}, "devel"},
		{"devel clean", Info{Version: "devel", Commit: "0123456789abcdef"}, "devel-0123456"},
		{"devel dirty", Info{Version: "devel", Commit: "abc", Modified: true}, "devel-abc-dirty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}
