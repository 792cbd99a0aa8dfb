// Package cmd holds build metadata injected with
// -ldflags "-X github.com/thoreinstein/snapdir/cmd.Version=...".
package cmd

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)

// BuildInfo formats the version, commit and date on one line.
func BuildInfo() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
