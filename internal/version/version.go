// Package version exposes build metadata for the startup log and the
// health payload. Values are overridden at release time:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.0 ..."
package version

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
