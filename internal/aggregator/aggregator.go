// Package aggregator owns the ordered record log, severity tallies, and the
// failed-resource dedup set for one observed browser session.
package aggregator

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tinytelemetry/pagelog/internal/location"
	"github.com/tinytelemetry/pagelog/internal/logparse"
	"github.com/tinytelemetry/pagelog/internal/model"
	"github.com/tinytelemetry/pagelog/internal/report"
)

// uncaughtPrefix marks records produced by uncaught script exceptions, to
// distinguish them from console-originated errors.
const uncaughtPrefix = "Uncaught: "

// Aggregator normalizes console, page-error, and failed-response events from
// one page handle into an append-only record log. All mutation happens
// synchronously inside event handlers under one mutex; live emission runs
// outside the lock. It stays queryable after the host session ends.
type Aggregator struct {
	mu            sync.Mutex
	start         time.Time
	records       []model.LogRecord
	errorCount    int
	warningCount  int
	seenResources map[string]struct{}
	basePrefix    string
	prefixLearned bool

	autoEmit     bool
	sink         model.Sink
	persist      bool
	reportDir    string
	reportPrefix string

	now func() time.Time // test hook
}

// New attaches an aggregator to a page handle and starts capturing.
// The returned aggregator is live immediately; events delivered before New
// returns are not observed.
func New(page model.PageEvents, opts Options) *Aggregator {
	opts = opts.withDefaults()
	a := &Aggregator{
		start:         time.Now(),
		seenResources: make(map[string]struct{}),
		basePrefix:    opts.BasePathPrefix,
		prefixLearned: opts.BasePathPrefix != "",
		autoEmit:      opts.AutoEmit,
		sink:          opts.Sink,
		persist:       opts.PersistReports,
		reportDir:     opts.ReportDir,
		reportPrefix:  opts.ReportPrefix,
		now:           time.Now,
	}
	if page != nil {
		page.OnConsole(a.handleConsole)
		page.OnPageError(a.handlePageError)
		page.OnResponse(a.handleResponse)
		page.OnNavigation(a.handleNavigation)
	}
	return a
}

// handleConsole records one console message. Console events are never
// deduplicated; every delivery produces exactly one record.
func (a *Aggregator) handleConsole(ev model.ConsoleEvent) {
	level := logparse.NormalizeLevelTag(ev.Type)

	a.mu.Lock()
	loc := location.Normalize(ev.URL, a.basePrefix, ev.Line, ev.Column)
	rec := a.append(level, loc, ev.Text)
	a.mu.Unlock()

	a.emit(rec)
}

// handlePageError records an uncaught script exception as ERROR. The first
// extractable stack frame becomes the location; otherwise it stays empty.
func (a *Aggregator) handlePageError(ev model.PageErrorEvent) {
	a.mu.Lock()
	var loc string
	if file, line, col, ok := logparse.ExtractStackFrame(ev.Stack); ok {
		loc = location.Normalize(file, a.basePrefix, line, col)
	}
	rec := a.append(model.LevelError, loc, uncaughtPrefix+ev.Message)
	a.mu.Unlock()

	a.emit(rec)
}

// handleResponse records a failed resource load (status >= 400) as ERROR.
// The dedup key is the raw pre-normalization URL and is session-lifetime
// scoped: a later navigation does not allow the same resource to report
// again. Suppressed duplicates leave records and tallies untouched.
func (a *Aggregator) handleResponse(ev model.ResponseEvent) {
	if ev.Status < 400 {
		return
	}

	a.mu.Lock()
	if _, seen := a.seenResources[ev.URL]; seen {
		a.mu.Unlock()
		return
	}
	a.seenResources[ev.URL] = struct{}{}
	loc := location.Normalize(ev.URL, a.basePrefix, 0, 0)
	rec := a.append(model.LevelError, loc, fmt.Sprintf("HTTP %d (%s)", ev.Status, ev.StatusText))
	a.mu.Unlock()

	a.emit(rec)
}

// handleNavigation learns the base path prefix from the first top-level
// navigation. The learn-once flag is set on the first event regardless of
// outcome; later navigations never re-learn.
func (a *Aggregator) handleNavigation(ev model.NavigationEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.prefixLearned {
		return
	}
	a.prefixLearned = true
	a.basePrefix = location.DeriveBasePrefix(ev.URL)
}

// append builds and stores one record. Callers hold a.mu.
func (a *Aggregator) append(level model.Level, loc, text string) model.LogRecord {
	now := a.now()
	rec := model.LogRecord{
		SequenceTime: report.FormatElapsed(now.Sub(a.start).Seconds()),
		Level:        level,
		Location:     loc,
		Text:         text,
		CapturedAt:   now,
	}
	a.records = append(a.records, rec)
	switch level {
	case model.LevelError:
		a.errorCount++
	case model.LevelWarn:
		a.warningCount++
	}
	return rec
}

// emit writes one live line to the sink. Best-effort: write failures are
// swallowed and never affect the stored record.
func (a *Aggregator) emit(rec model.LogRecord) {
	if !a.autoEmit || a.sink == nil {
		return
	}
	_ = a.sink.WriteLine(report.StreamLine(rec))
}

// Summary returns current tallies with elapsed time computed at call time.
func (a *Aggregator) Summary() model.Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return model.Summary{
		MessageCount:   len(a.records),
		ErrorCount:     a.errorCount,
		WarningCount:   a.warningCount,
		ElapsedSeconds: a.now().Sub(a.start).Seconds(),
	}
}

// Records returns a copy of the accumulated records in append order.
func (a *Aggregator) Records() []model.LogRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.LogRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Render produces the full report for the current accumulated state. It is
// pure with respect to stored state and may be called any number of times.
func (a *Aggregator) Render(title string) string {
	return report.Render(a.snapshot(title))
}

// PrintReport writes the rendered report to the sink wrapped in rule lines
// and, when persistence is enabled, also writes it to a report file. Only
// the file write may surface an error.
func (a *Aggregator) PrintReport(title string) error {
	snap := a.snapshot(title)
	rendered := report.Render(snap)

	if a.sink != nil {
		_ = a.sink.WriteLine(report.Rule())
		_ = a.sink.WriteLine(rendered)
		_ = a.sink.WriteLine(report.Rule())
	}

	if !a.persist {
		return nil
	}
	path, err := report.WriteFile(a.reportDir, a.reportPrefix, rendered, snap.RenderedAt)
	if err != nil {
		return err
	}
	log.Printf("aggregator: report saved to %s", path)
	return nil
}

func (a *Aggregator) snapshot(title string) report.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	records := make([]model.LogRecord, len(a.records))
	copy(records, a.records)
	return report.Snapshot{
		Title:          title,
		StartedAt:      a.start,
		RenderedAt:     now,
		ElapsedSeconds: now.Sub(a.start).Seconds(),
		Errors:         a.errorCount,
		Warnings:       a.warningCount,
		Total:          len(a.records),
		Records:        records,
	}
}
