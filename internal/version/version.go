// Package version provides centralized version information for the three
// CLI tools (impact-analyzer, test-indexer, chunker), sourced from an
// embedded version.toml, with Commit and BuildDate set at build time via
// ldflags.
package version

import (
	_ "embed"

	"github.com/BurntSushi/toml"
)

//go:embed version.toml
var versionTOML []byte

type versionFile struct {
	Version string `toml:"version"`
}

// Commit and BuildDate can be set at build time using ldflags:
// go build -ldflags "-X .../internal/version.Commit=abc123"
var (
	// Version is the semantic version, loaded from version.toml. It is
	// initialized by a function call, so -ldflags -X does not override it.
	Version = mustLoadVersion()

	// Commit is the git commit hash (set at build time).
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time).
	BuildDate = "unknown"
)

func mustLoadVersion() string {
	var vf versionFile
	if _, err := toml.Decode(string(versionTOML), &vf); err != nil || vf.Version == "" {
		return "0.0.0"
	}
	return vf.Version
}

// Info returns a formatted version string.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information.
func Full() string {
	return "sourcetraildb version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
