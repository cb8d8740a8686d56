package app

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/dailylaw/ledge-backend/internal/app.Version=1.0.0".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Build describes the running binary.
type Build struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified,omitempty"`
}

// BuildInfo reports the linker-set values. When Commit was not set at link
// time the VCS stamp embedded by the go tool is used instead.
func BuildInfo() Build {
	b := Build{Version: Version, Commit: Commit, BuiltAt: BuildTime, GoVersion: runtime.Version()}
	if b.Commit != "unknown" {
		return b
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		applyVCS(&b, info.Settings)
	}
	return b
}

func applyVCS(b *Build, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			b.Commit = s.Value
			if len(b.Commit) > 12 {
				b.Commit = b.Commit[:12]
			}
		case "vcs.time":
			if b.BuiltAt == "unknown" {
				b.BuiltAt = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
}

func (b Build) String() string {
	commit := b.Commit
	if b.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", b.Version, commit, b.BuiltAt)
}

// BuildVersion is BuildInfo in its one-line form.
func BuildVersion() string {
	return BuildInfo().String()
}
