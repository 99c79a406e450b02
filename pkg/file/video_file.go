package file

import (
	"path/filepath"
	"strings"
)

// IsAllowedVideoType checks the declared content type against the configured
// allow list.
func IsAllowedVideoType(mimeType string, allowed []string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, t := range allowed {
		if mimeType == strings.ToLower(t) {
			return true
		}
	}
	return false
}

// SafeFilename strips any path components a client smuggled into the
// uploaded filename.
func SafeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}
