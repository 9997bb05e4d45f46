package version

import "fmt"

// These variables are overridden at build time using -ldflags.
// Keep sensible defaults for local development.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// BuildInfo is the build metadata exposed by the API and the binaries.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Dirty   bool   `json:"dirty"`
}

func Get() BuildInfo {
	return BuildInfo{Version: Version, Commit: Commit, Date: Date, Dirty: Dirty == "true"}
}

// String renders the build as "version (commit[-dirty], date)".
func (b BuildInfo) String() string {
	commit := b.Commit
	if b.Dirty {
		commit += "-dirty"
	}
	if b.Date == "" {
		return fmt.Sprintf("%s (%s)", b.Version, commit)
	}
	return fmt.Sprintf("%s (%s, %s)", b.Version, commit, b.Date)
}
