package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func withBuild(t *testing.T, version, commit, date string, bi *debug.BuildInfo) {
	t.Helper()
	origVersion, origCommit, origDate, origRead := Version, Commit, Date, readBuildInfo
	t.Cleanup(func() {
		Version, Commit, Date, readBuildInfo = origVersion, origCommit, origDate, origRead
	})
	Version, Commit, Date = version, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGetInfoFromLdflags(t *testing.T) {
	withBuild(t, "v1.2.0", "abc123def456", "2026-03-01T12:00:00Z", &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.9.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
	})

	info := GetInfo()

	if info.Version != "v1.2.0" {
		t.Errorf("Version = %q, want v1.2.0", info.Version)
	}
	if info.Commit != "abc123def456" {
		t.Errorf("Commit = %q, ldflags should win over build info", info.Commit)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("Platform = %q, want %q", info.Platform, want)
	}
}

func TestGetInfoFallsBackToBuildInfo(t *testing.T) {
	withBuild(t, "dev", "unknown", "unknown", &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-02-10T08:00:00Z"},
		},
	})

	info := GetInfo()

	if info.Version != "v0.3.1" || info.Commit != "0123456789abcdef" || info.Date != "2026-02-10T08:00:00Z" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestGetInfoIgnoresDevelBuild(t *testing.T) {
	withBuild(t, "dev", "unknown", "unknown", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	if got := GetInfo().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestGetInfoWithoutBuildInfo(t *testing.T) {
	withBuild(t, "dev", "unknown", "unknown", nil)

	info := GetInfo()
	if info.Version != "dev" || info.Commit != "unknown" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		Commit:    "abc123def456789",
		Date:      "2026-01-01",
		GoVersion: "go1.24.6",
		Platform:  "linux/amd64",
	}

	got := info.String()
	for _, want := range []string{"rcup 1.0.0", "(abc123de)", "built 2026-01-01", "go1.24.6", "linux/amd64"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "abc123def456789") {
		t.Errorf("String() should shorten the commit, got %q", got)
	}
}

func TestShortCommitKeptWhole(t *testing.T) {
	info := Info{Version: "dev", Commit: "abc"}
	if !strings.Contains(info.String(), "(abc)") {
		t.Errorf("String() = %q", info.String())
	}
}

func TestUserAgent(t *testing.T) {
	info := Info{Version: "v2.1.0", Platform: "darwin/arm64"}

	if got := info.UserAgent(); got != "rcup/2.1.0 (darwin/arm64)" {
		t.Errorf("UserAgent() = %q", got)
	}
	if got := info.Short(); got != "2.1.0" {
		t.Errorf("Short() = %q", got)
	}
}
