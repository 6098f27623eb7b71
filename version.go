package glotmark

// Version information for glotmark.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/glotmark/glotmark.Version=1.0.0"
const (
	// Name is the application name.
	Name = "glotmark"

	// Description is a short description of the application.
	Description = "Inline comment-translation annotation engine"

	// Repository is the source code repository URL.
	Repository = "https://github.com/glotmark/glotmark"

	// License is the software license.
	License = "MIT"
)

// Build-time information, typically set via ldflags during release builds.
var (
	// Version is the semantic version of the application.
	Version = "0.1.0"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with optional build info.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
