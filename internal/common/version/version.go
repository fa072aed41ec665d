package version

import (
	"fmt"
	"runtime"
)

// Version information - set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns formatted version information for portagetool
func Info() string {
	return InfoFor("portagetool")
}

// InfoFor returns formatted version information for program
func InfoFor(program string) string {
	return fmt.Sprintf("%s version %s\n  commit: %s\n  built: %s\n  go: %s\n  os/arch: %s/%s",
		program, Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version string
func Short() string {
	return Version
}
