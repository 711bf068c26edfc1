package contracts

import (
	"fmt"
	"runtime"
)

// Version of the inflammation tools and of the /api/v1 response contracts
const Version = "1.0.0"

// Stamped with -ldflags "-X inflammation/pkg/contracts.GitCommit=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GetVersionString returns "inflammation vX.Y.Z"
func GetVersionString() string {
	return "inflammation v" + Version
}

// GetFullVersionString adds build stamps and the Go toolchain and platform
func GetFullVersionString() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)",
		GetVersionString(), GitCommit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
