package version

import "fmt"

// set via ldflags at build time
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var FullVersion = fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
