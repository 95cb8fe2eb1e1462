// Package location normalizes raw page URLs and file paths into the short
// display form used in the transcript.
package location

import (
	"strconv"
	"strings"
)

// Normalize strips basePrefix from the front of raw (plus a single leading
// path separator) and appends ":line" and ":line:column" when positive.
// An empty raw path yields an empty location regardless of line/column.
func Normalize(raw, basePrefix string, line, column int) string {
	path := StripPrefix(raw, basePrefix)
	if path == "" {
		return ""
	}
	if line > 0 {
		path += ":" + strconv.Itoa(line)
		if column > 0 {
			path += ":" + strconv.Itoa(column)
		}
	}
	return path
}

// StripPrefix removes basePrefix and at most one leading separator from raw.
// A raw string that does not start with the prefix passes through unchanged.
func StripPrefix(raw, basePrefix string) string {
	if basePrefix == "" || !strings.HasPrefix(raw, basePrefix) {
		return raw
	}
	trimmed := raw[len(basePrefix):]
	if len(trimmed) > 0 && (trimmed[0] == '/' || trimmed[0] == '\\') {
		trimmed = trimmed[1:]
	}
	return trimmed
}

// DeriveBasePrefix learns a base path prefix from a top-level navigation
// URL: query and fragment are dropped, a trailing document segment (one
// containing a dot) is removed, and any trailing slash is trimmed.
// "https://example.com/app/index.html" yields "https://example.com/app".
func DeriveBasePrefix(navURL string) string {
	u := navURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimSuffix(u, "/")

	// Never cut into the scheme's "//".
	pathStart := 0
	if i := strings.Index(u, "://"); i >= 0 {
		pathStart = i + len("://")
	}
	if i := strings.LastIndex(u, "/"); i > pathStart {
		if last := u[i+1:]; strings.Contains(last, ".") {
			u = u[:i]
		}
	}
	return u
}
