// Package version reports the build version of the tuikit binaries.
package version

import (
	"os"
	"path/filepath"
	"strings"
)

// Version is set at build time with
// -ldflags "-X github.com/loganmanery/tuikit/internal/version.Version=1.2.3".
var Version = ""

// Get returns the build version. Without one it looks for a VERSION file next
// to the executable, then reports "unknown".
func Get() string {
	if Version != "" {
		return Version
	}

	exe, err := os.Executable()
	if err == nil {
		if v := readVersionFile(filepath.Join(filepath.Dir(exe), "VERSION")); v != "" {
			return v
		}
	}
	return "unknown"
}

func readVersionFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
