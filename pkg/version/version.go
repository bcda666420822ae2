package version

// path: pkg/version/version.go

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/pynezz/cybermap/pkg/version.version=..."
var (
	version   = "dev"
	commit    = "none"
	buildDate = "na"
)

// Info returns version information, one field per line
func Info() string {
	return fmt.Sprintf("cybermap %s\nGit commit: %s\nGo version: %s\nOS/Arch: %s/%s\nBuild date: %s\n",
		version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH, buildDate)
}

// Short returns "cybermap <version>" for banners and the TUI title bar.
func Short() string {
	return "cybermap " + version
}
