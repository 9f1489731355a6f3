// Package cli implements the command-line interface for Clipman
package cli

import (
	cmdpkg "github.com/berrythewa/clipman-history/internal/cli/cmd"
)

// SetVersionInfo records build metadata for the version command
func SetVersionInfo(version, buildTime, commit string) {
	cmdpkg.SetVersionInfo(version, buildTime, commit)
}

// Execute runs the root command
func Execute() {
	cmdpkg.Execute()
}
