// Package waypoint holds build metadata for the waypoint binary.
package waypoint

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/waypoint/pkg/waypoint.Version=...".
var Version = "0.1.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/waypoint"
