// Package version holds build information injected at link time.
package version

import "fmt"

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/stakemap/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"

// Commit and Date are set the same way as Version.
var (
	Commit = "unknown"
	Date   = "unknown"
)

// Template is the text printed by --version.
func Template() string {
	return fmt.Sprintf("stakemap %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
