package aggregator

import (
	"os"

	"github.com/tinytelemetry/pagelog/internal/model"
)

// Options configures a new aggregator. The zero value is not usable
// directly; construct via DefaultOptions and override fields.
type Options struct {
	// BasePathPrefix is stripped from displayed locations. When empty it is
	// auto-learned from the first top-level navigation event.
	BasePathPrefix string

	// AutoEmit enables live one-line emission of every record to Sink.
	AutoEmit bool

	// Sink receives live lines and printed reports. Defaults to stdout.
	Sink model.Sink

	// PersistReports additionally writes printed reports to ReportDir.
	PersistReports bool
	ReportDir      string
	ReportPrefix   string
}

// DefaultOptions returns the construction defaults: live emission to stdout,
// no file persistence, prefix auto-learned from navigation.
func DefaultOptions() Options {
	return Options{
		AutoEmit:     true,
		ReportDir:    model.DefaultReportDir,
		ReportPrefix: model.DefaultReportPrefix,
	}
}

func (o Options) withDefaults() Options {
	if o.Sink == nil {
		o.Sink = NewWriterSink(os.Stdout)
	}
	if o.ReportDir == "" {
		o.ReportDir = model.DefaultReportDir
	}
	if o.ReportPrefix == "" {
		o.ReportPrefix = model.DefaultReportPrefix
	}
	return o
}
