package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/pagerterm/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/pagerterm/internal/version.Commit=abc1234"
//
// When left empty they are filled from the VCS stamp in the build info, and
// finally from the current time.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			fromBuildSettings(info.Settings)
		}
	}
	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildSettings fills Commit from vcs.revision (short hash, "-dirty" when
// modified) and Version from vcs.time.
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
			Version = "dev-" + t.Format("20060102")
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// About returns the lines shown on the device About screen.
func About() []string {
	return []string{
		"Pager Terminal",
		"Version " + Version,
		"Commit " + Commit,
		"",
		"SSH terminal for handheld pagers",
		"github.com/muurk/pagerterm",
	}
}
