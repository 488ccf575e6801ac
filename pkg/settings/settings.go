// Package settings provides build metadata, per-run settings, and context
// helpers shared by the quickbar CLI and host.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "quickbar"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds settings for a single execution of the application.
type Run struct {
	MinLogLevel  int8
	LogFile      string
	RegistryPath string
	Interactive  bool
	NoColor      bool
}

// NewCliParams returns the defaults used by the CLI before flags are applied.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Interactive: true,
	}
}

// LogLevel maps the --debug flag onto a zap level: -1 (debug) or 0 (info).
func LogLevel(debug bool) int8 {
	if debug {
		return -1
	}
	return 0
}
