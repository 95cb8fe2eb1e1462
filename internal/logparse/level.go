package logparse

import (
	"strings"

	"github.com/tinytelemetry/pagelog/internal/model"
)

// NormalizeLevelTag maps a host console level tag to the closed record level
// set. Any spelling of "error" maps to ERROR, any spelling of "warning" to
// WARN, everything else (log, info, debug, trace, ...) to INFO.
func NormalizeLevelTag(tag string) model.Level {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "ERROR", "ERR", "SEVERE":
		return model.LevelError
	case "WARN", "WARNING", "WRN":
		return model.LevelWarn
	default:
		return model.LevelInfo
	}
}
