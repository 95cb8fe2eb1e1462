package model

// Shared defaults used by the aggregator, renderer, and CLI.
const (
	DefaultReportTitle  = "Console Log Report"
	DefaultReportDir    = "console-reports"
	DefaultReportPrefix = "console"
)
