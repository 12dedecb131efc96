// Package buildinfo carries version metadata stamped in at build time.
package buildinfo

// Set via -ldflags "-X github.com/bankfeed-dev/bankfeed/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
