package logparse

import (
	"regexp"
	"strconv"
)

// stackFrameRegex matches the first V8-style stack frame, with or without a
// function name: "at http://x/app.js:10:5" or "at fn (http://x/app.js:10:5)".
var stackFrameRegex = regexp.MustCompile(`\bat\s+(?:[^\s(]+\s+\()?([^\s()]+):(\d+):(\d+)\)?`)

// ExtractStackFrame returns the file, line, and column of the first
// extractable frame in a stack trace. ok is false when no frame matches;
// callers then fall back to an empty location.
func ExtractStackFrame(stack string) (file string, line, column int, ok bool) {
	m := stackFrameRegex.FindStringSubmatch(stack)
	if m == nil {
		return "", 0, 0, false
	}
	line, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, 0, false
	}
	column, err = strconv.Atoi(m[3])
	if err != nil {
		return "", 0, 0, false
	}
	return m[1], line, column, true
}
