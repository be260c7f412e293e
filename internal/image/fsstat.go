package image

import "strings"

const fsTypeMarker = "File System Type: "

// ParseFilesystemType extracts the filesystem type from prober output.
// The second return is false when the prober reported no type; that is an
// absent value, not an error, and the caller decides how to surface it.
func ParseFilesystemType(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, fsTypeMarker); i >= 0 {
			return strings.TrimSpace(line[i+len(fsTypeMarker):]), true
		}
	}
	return "", false
}
