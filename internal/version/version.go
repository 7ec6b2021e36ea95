package version

import "fmt"

// shortCommitLen is how many characters of the commit hash are shown
const shortCommitLen = 7

var (
	// Version is the md-preview release being run.
	Version = "0.1.0"

	// GitCommit is the git commit that was compiled. This will be filled in by the compiler.
	GitCommit string

	// BuildDate is the date the binary was built
	BuildDate string
)

// FullVersion returns the version string shown by --version
func FullVersion() string {
	version := Version
	if GitCommit != "" {
		version += fmt.Sprintf(" (%s)", shortCommit(GitCommit))
	}
	if BuildDate != "" {
		version += fmt.Sprintf(" built on %s", BuildDate)
	}
	return version
}

func shortCommit(commit string) string {
	if len(commit) > shortCommitLen {
		return commit[:shortCommitLen]
	}
	return commit
}
