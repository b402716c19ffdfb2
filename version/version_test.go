package version

import (
	"strings"
	"testing"
	"time"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGetUsesLinkerValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.4.0"
	GitCommit = "abcdef1234567"
	BuildTime = "2026-01-02T03:04:05Z"

	info := Get()
	if info.Version != "1.4.0" {
		t.Errorf("expected version 1.4.0, got %q", info.Version)
	}
	if info.GitCommit != "abcdef1" {
		t.Errorf("expected commit truncated to abcdef1, got %q", info.GitCommit)
	}
	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if !info.BuildDate.Equal(want) {
		t.Errorf("expected build date %v, got %v", want, info.BuildDate)
	}
}

func TestShortAndString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", IsDirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}

	built := Info{Version: "1.0.0", BuildDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
	if got := built.String(); got != "1.0.0 (built 2026-01-02T00:00:00Z)" {
		t.Errorf("String() = %q", got)
	}
}

func TestResolve(t *testing.T) {
	defer saveAndRestore()()
	Version = "2.0.0"

	if got := Resolve("1.2.3"); got != "1.2.3" {
		t.Errorf("expected configured version to win, got %q", got)
	}
	for _, configured := range []string{"", "dev"} {
		if got := Resolve(configured); !strings.HasPrefix(got, "2.0.0") {
			t.Errorf("Resolve(%q) = %q, expected the build version", configured, got)
		}
	}
}
