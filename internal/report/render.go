// Package report renders accumulated session records as the plain-text
// transcript consumed by test harnesses. The full-report format is a
// compatibility surface and must not drift.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tinytelemetry/pagelog/internal/model"
)

const ruleWidth = 80

// Snapshot is the immutable view of aggregator state a report is built from.
type Snapshot struct {
	Title          string
	StartedAt      time.Time
	RenderedAt     time.Time
	ElapsedSeconds float64
	Errors         int
	Warnings       int
	Total          int
	Records        []model.LogRecord
}

// Render produces the complete textual report. Records are emitted in
// ascending capture order via a stable sort over a copy; the input snapshot
// is never mutated.
func Render(s Snapshot) string {
	title := s.Title
	if title == "" {
		title = model.DefaultReportTitle
	}

	records := make([]model.LogRecord, len(s.Records))
	copy(records, s.Records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CapturedAt.Before(records[j].CapturedAt)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	fmt.Fprintf(&b, "# Started: %s | Elapsed: %.1fs\n",
		s.StartedAt.Format("2006-01-02 15:04:05"), s.ElapsedSeconds)
	fmt.Fprintf(&b, "# Errors: %d | Warnings: %d | Total Messages: %d\n\n",
		s.Errors, s.Warnings, s.Total)

	for _, rec := range records {
		b.WriteString(Line(rec))
		b.WriteByte('\n')
	}

	if s.Errors > 0 {
		fmt.Fprintf(&b, "\nERROR: %d SEVERE logs detected!\n", s.Errors)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(&b, "WARNING: %d warning logs detected!\n", s.Warnings)
	}

	fmt.Fprintf(&b, "\n## Console capture complete on %s @%s ##\n",
		s.RenderedAt.Format("2006-01-02"), s.RenderedAt.Format("03:04pm"))

	return b.String()
}

// Rule returns the fixed-width separator line printed around reports.
func Rule() string {
	return strings.Repeat("=", ruleWidth)
}
