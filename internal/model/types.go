package model

import "time"

// Level is the closed severity set for captured records.
type Level string

const (
	LevelError Level = "ERROR"
	LevelWarn  Level = "WARN"
	LevelInfo  Level = "INFO"
)

// LogRecord represents one normalized log entry captured from a browser
// session. It is the canonical type for storage, rendering, and the HTTP API.
// Records are immutable once created.
type LogRecord struct {
	SequenceTime string    `json:"ts"`                 // elapsed seconds since session start, frozen at capture ("00.04")
	Level        Level     `json:"level"`              // ERROR/WARN/INFO
	Location     string    `json:"location,omitempty"` // "file:line[:col]" or resource path; empty when unknown
	Text         string    `json:"text"`               // message payload, opaque to the aggregator
	CapturedAt   time.Time `json:"captured_at"`        // wall-clock capture instant, used for sort stability
}

// Summary is a point-in-time snapshot of the aggregator's tallies.
type Summary struct {
	MessageCount   int     `json:"message_count"`
	ErrorCount     int     `json:"error_count"`
	WarningCount   int     `json:"warning_count"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}
