// Package version holds the application version, set at build time via
// -ldflags "-X .../internal/version.Version=v1.2.3".
package version

// Version is the running application version.
var Version = "dev"
