package version

import (
	"github.com/prometheus/common/version"
)

// Overridden at build time with -ldflags "-X conspect-web/internal/version.Version=...".
var (
	Version   string = "dev"
	GitCommit string = "unknown"
	BuildTime string = "unknown"
)

func init() {
	version.Version = Version
	version.Revision = GitCommit
	version.BuildDate = BuildTime
}

func GetVersion() string {
	return Version
}

func GetGitCommit() string {
	return GitCommit
}

func GetBuildTime() string {
	return BuildTime
}

func GetFullVersion() string {
	return Version + " (commit: " + GitCommit + ", built: " + BuildTime + ")"
}

// Print returns the multi-line build report shown by -version.
func Print(program string) string {
	return version.Print(program)
}

// Info is the one-line build summary logged at startup.
func Info() string {
	return version.Info()
}
