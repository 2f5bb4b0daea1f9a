package version

import (
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"bare", Info{Version: "1.2.3"}, "wscheck 1.2.3"},
		{"commit", Info{Version: "1.2.3", GitCommit: "1234567890abcdef1234"}, "wscheck 1.2.3 (1234567890ab)"},
		{"commit and date", Info{Version: "0.1.0-dev", GitCommit: "abc123", BuildDate: "2024-01-15T10:30:00Z"}, "wscheck 0.1.0-dev (abc123, 2024-01-15T10:30:00Z)"},
		{"date only", Info{Version: "2.0.0", BuildDate: "2024-01-15"}, "wscheck 2.0.0 (2024-01-15)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrent_Overrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("Current() = %+v, want linked-in values", info)
	}
}
