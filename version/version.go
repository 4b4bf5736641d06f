// Package version holds build metadata, set with
// -ldflags "-X github.com/harlequix/hamrelay/version.Version=..."
package version

import (
	"fmt"
	"runtime"
)

var (
	BuildDate = "unknown"
	GitCommit = "unknown"
	Version   = "dev"
	GoVersion = runtime.Version()
	OsArch    = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)
