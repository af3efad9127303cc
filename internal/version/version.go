package version

// Version identifies the build; release builds override it via
// -ldflags "-X github.com/uzbridge/hemis-mcp/internal/version.Version=...".
var Version = "1.0.0"
