package version

import "fmt"

// Version is set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/doclinks/internal/version.Version=v1.0.0".
var Version = "dev"

// Build metadata, also injected with ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("doclinks %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}

// UserAgent is the default User-Agent for external link checks.
func UserAgent() string {
	return "doclinks/" + Version
}
