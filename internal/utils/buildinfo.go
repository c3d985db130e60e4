package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion      = "unknown"
	develBuildVersion   = "(devel)"
	gitExecutableName   = "git"
	gitDescribeArgument = "describe"
)

// Version is injected at release time with -ldflags "-X github.com/temirov/ctxpack/internal/utils.Version=...".
var Version = ""

// GetApplicationVersion returns the release version, falling back to module build
// information and finally to git describe output when running from a checkout.
func GetApplicationVersion() string {
	if strings.TrimSpace(Version) != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}

	describeArguments := [][]string{
		{gitDescribeArgument, "--tags", "--exact-match"},
		{gitDescribeArgument, "--tags", "--long", "--dirty"},
	}
	for _, arguments := range describeArguments {
		// #nosec G204
		describeOutput, describeError := exec.Command(gitExecutableName, arguments...).Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}
