// Package version carries build-time version metadata for opr binaries.
package version

import "strings"

// Set via -ldflags at release build time.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Get returns a single-line human-readable version string.
func Get() string {
	parts := []string{"opr " + strings.TrimSpace(Version)}
	if c := strings.TrimSpace(Commit); c != "" {
		parts = append(parts, "commit "+c)
	}
	if d := strings.TrimSpace(Date); d != "" {
		parts = append(parts, "built "+d)
	}
	return strings.Join(parts, ", ")
}
