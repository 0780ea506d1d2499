// Package version carries build metadata for the vela CLI.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"regexp"

	"github.com/fatih/color"
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = majorColor.Sprint("0") + "." + minorColor.Sprint("1") + "." + patchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Plain returns Version stripped of terminal styling, for machine
// consumers like the SARIF tool descriptor.
func Plain() string {
	return ansiRE.ReplaceAllString(Version, "")
}
