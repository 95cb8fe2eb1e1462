package aggregator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/pagelog/internal/model"
)

// fakePage is an in-process PageEvents bus for driving the aggregator.
type fakePage struct {
	console    func(model.ConsoleEvent)
	pageError  func(model.PageErrorEvent)
	response   func(model.ResponseEvent)
	navigation func(model.NavigationEvent)
}

func (f *fakePage) OnConsole(fn func(model.ConsoleEvent))       { f.console = fn }
func (f *fakePage) OnPageError(fn func(model.PageErrorEvent))   { f.pageError = fn }
func (f *fakePage) OnResponse(fn func(model.ResponseEvent))     { f.response = fn }
func (f *fakePage) OnNavigation(fn func(model.NavigationEvent)) { f.navigation = fn }

func newQuiet(t *testing.T, opts Options) (*fakePage, *Aggregator) {
	t.Helper()
	opts.AutoEmit = false
	page := &fakePage{}
	agg := New(page, opts)
	return page, agg
}

func TestSummary_EmptyAggregator(t *testing.T) {
	t.Parallel()
	_, agg := newQuiet(t, DefaultOptions())
	s := agg.Summary()
	if s.MessageCount != 0 || s.ErrorCount != 0 || s.WarningCount != 0 {
		t.Errorf("empty summary = %+v, want all zero counts", s)
	}
	if s.ElapsedSeconds < 0 {
		t.Errorf("elapsed = %f, want >= 0", s.ElapsedSeconds)
	}
}

func TestConsoleEvents_LevelMappingAndTallies(t *testing.T) {
	t.Parallel()
	page, agg := newQuiet(t, DefaultOptions())

	events := []struct {
		tag       string
		wantLevel model.Level
	}{
		{"log", model.LevelInfo},
		{"ERROR", model.LevelError},
		{"Warning", model.LevelWarn},
		{"debug", model.LevelInfo},
		{"error", model.LevelError},
	}
	for i, ev := range events {
		page.console(model.ConsoleEvent{Type: ev.tag, Text: "m"})

		// Tallies must match per-level record counts after every event,
		// not just at the end.
		s := agg.Summary()
		var errs, warns int
		for _, r := range agg.Records() {
			switch r.Level {
			case model.LevelError:
				errs++
			case model.LevelWarn:
				warns++
			}
		}
		if s.ErrorCount != errs || s.WarningCount != warns {
			t.Fatalf("after event %d: summary counts (%d,%d) != record counts (%d,%d)",
				i, s.ErrorCount, s.WarningCount, errs, warns)
		}
		if s.MessageCount != i+1 {
			t.Fatalf("after event %d: messageCount = %d, want %d", i, s.MessageCount, i+1)
		}
	}

	records := agg.Records()
	for i, ev := range events {
		if records[i].Level != ev.wantLevel {
			t.Errorf("record %d level = %q, want %q", i, records[i].Level, ev.wantLevel)
		}
	}
}

func TestFailedResource_DedupByRawURL(t *testing.T) {
	t.Parallel()
	page, agg := newQuiet(t, DefaultOptions())

	page.response(model.ResponseEvent{URL: "https://example.com/missing.js", Status: 404, StatusText: "Not Found"})
	page.response(model.ResponseEvent{URL: "https://example.com/missing.js", Status: 404, StatusText: "Not Found"})

	s := agg.Summary()
	if s.MessageCount != 1 || s.ErrorCount != 1 {
		t.Errorf("summary = %+v, want exactly one ERROR record", s)
	}
	recs := agg.Records()
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if recs[0].Text != "HTTP 404 (Not Found)" {
		t.Errorf("text = %q, want HTTP 404 (Not Found)", recs[0].Text)
	}
}

func TestFailedResource_SuccessStatusIgnored(t *testing.T) {
	t.Parallel()
	page, agg := newQuiet(t, DefaultOptions())
	page.response(model.ResponseEvent{URL: "https://example.com/ok.js", Status: 200, StatusText: "OK"})
	page.response(model.ResponseEvent{URL: "https://example.com/moved.js", Status: 304, StatusText: "Not Modified"})
	if got := agg.Summary().MessageCount; got != 0 {
		t.Errorf("messageCount = %d, want 0 for sub-400 statuses", got)
	}
}

func TestPageError_StackFrameLocation(t *testing.T) {
	t.Parallel()
	page, agg := newQuiet(t, Options{BasePathPrefix: "https://example.com"})

	page.pageError(model.PageErrorEvent{
		Message: "boom",
		Stack:   "Error: boom\n    at https://example.com/app.js:10:5",
	})

	recs := agg.Records()
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if recs[0].Level != model.LevelError {
		t.Errorf("level = %q, want ERROR", recs[0].Level)
	}
	if recs[0].Location != "app.js:10:5" {
		t.Errorf("location = %q, want app.js:10:5", recs[0].Location)
	}
	if recs[0].Text != "Uncaught: boom" {
		t.Errorf("text = %q, want Uncaught: boom", recs[0].Text)
	}
}

func TestLocationStripping_ConsoleOrigin(t *testing.T) {
	t.Parallel()
	page, agg := newQuiet(t, Options{BasePathPrefix: "https://example.com"})
	page.console(model.ConsoleEvent{Type: "error", URL: "https://example.com/app.js", Line: 10, Column: 5, Text: "x"})
	page.console(model.ConsoleEvent{Type: "log", URL: "https://cdn.other.net/lib.js", Line: 1, Column: 1, Text: "y"})

	recs := agg.Records()
	if recs[0].Location != "app.js:10:5" {
		t.Errorf("stripped location = %q, want app.js:10:5", recs[0].Location)
	}
	if recs[1].Location != "https://cdn.other.net/lib.js:1:1" {
		t.Errorf("unmatched prefix location = %q, want raw passthrough", recs[1].Location)
	}
}

func TestNavigation_LearnsPrefixOnce(t *testing.T) {
	t.Parallel()
	page, agg := newQuiet(t, DefaultOptions())

	page.navigation(model.NavigationEvent{URL: "https://example.com/app/index.html"})
	page.navigation(model.NavigationEvent{URL: "https://other.net/elsewhere/page.html"})

	page.console(model.ConsoleEvent{Type: "log", URL: "https://example.com/app/main.js", Line: 2, Text: "hi"})
	recs := agg.Records()
	if recs[0].Location != "main.js:2" {
		t.Errorf("location = %q, want main.js:2 (prefix from first navigation only)", recs[0].Location)
	}
}

func TestNavigation_SuppliedPrefixNotOverridden(t *testing.T) {
	t.Parallel()
	page, agg := newQuiet(t, Options{BasePathPrefix: "https://example.com"})
	page.navigation(model.NavigationEvent{URL: "https://other.net/page.html"})
	page.console(model.ConsoleEvent{Type: "log", URL: "https://example.com/app.js", Line: 1, Text: "hi"})
	if got := agg.Records()[0].Location; got != "app.js:1" {
		t.Errorf("location = %q, want app.js:1 (constructed prefix kept)", got)
	}
}

func TestRender_IdempotentAndNonMutating(t *testing.T) {
	t.Parallel()
	page, agg := newQuiet(t, DefaultOptions())
	frozen := time.Date(2026, 8, 26, 15, 4, 5, 0, time.UTC)
	agg.now = func() time.Time { return frozen }

	page.console(model.ConsoleEvent{Type: "warning", Text: "w"})
	page.console(model.ConsoleEvent{Type: "error", Text: "e"})

	before := agg.Summary()
	first := agg.Render("Session")
	second := agg.Render("Session")
	after := agg.Summary()

	if first != second {
		t.Error("two renders with frozen clock differ")
	}
	if before != after {
		t.Errorf("summary changed across renders: %+v -> %+v", before, after)
	}
	if !strings.Contains(first, "WARNING: 1 warning logs detected!") {
		t.Errorf("report missing warning trailer:\n%s", first)
	}
	if !strings.Contains(first, "ERROR: 1 SEVERE logs detected!") {
		t.Errorf("report missing error trailer:\n%s", first)
	}
}

// failingSink always errors; emission must stay best-effort.
type failingSink struct{ calls int }

func (s *failingSink) WriteLine(string) error {
	s.calls++
	return errors.New("sink closed")
}

func TestEmission_SinkFailureDoesNotAffectRecords(t *testing.T) {
	t.Parallel()
	sink := &failingSink{}
	page := &fakePage{}
	agg := New(page, Options{AutoEmit: true, Sink: sink})

	page.console(model.ConsoleEvent{Type: "error", Text: "boom"})

	if sink.calls != 1 {
		t.Errorf("sink calls = %d, want 1", sink.calls)
	}
	if got := agg.Summary().MessageCount; got != 1 {
		t.Errorf("messageCount = %d, want 1 despite sink failure", got)
	}
}

func TestEmission_CollectsLinesWhenEnabled(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	page := &fakePage{}
	New(page, Options{AutoEmit: true, Sink: NewWriterSink(&out)})

	page.console(model.ConsoleEvent{Type: "log", Text: "hello"})

	if !strings.Contains(out.String(), "INFO\thello") {
		t.Errorf("live output = %q, want INFO line", out.String())
	}
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()
	page, agg := newQuiet(t, DefaultOptions())

	page.console(model.ConsoleEvent{Type: "info", Text: "starting"})
	page.console(model.ConsoleEvent{Type: "warning", Text: "deprecated API"})
	page.response(model.ResponseEvent{URL: "/a.js", Status: 404, StatusText: "Not Found"})
	page.response(model.ResponseEvent{URL: "/a.js", Status: 404, StatusText: "Not Found"})
	page.pageError(model.PageErrorEvent{Message: "x is not defined"})

	s := agg.Summary()
	if s.MessageCount != 4 {
		t.Errorf("messageCount = %d, want 4", s.MessageCount)
	}
	if s.ErrorCount != 2 {
		t.Errorf("errorCount = %d, want 2", s.ErrorCount)
	}
	if s.WarningCount != 1 {
		t.Errorf("warningCount = %d, want 1", s.WarningCount)
	}

	recs := agg.Records()
	last := recs[len(recs)-1]
	if last.Text != "Uncaught: x is not defined" {
		t.Errorf("exception text = %q, want Uncaught: x is not defined", last.Text)
	}
	if last.Location != "" {
		t.Errorf("exception location = %q, want empty (no extractable frame)", last.Location)
	}
}

func TestPrintReport_WrapsInRuleLines(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	page := &fakePage{}
	agg := New(page, Options{AutoEmit: false, Sink: NewWriterSink(&out)})

	page.console(model.ConsoleEvent{Type: "log", Text: "hi"})
	if err := agg.PrintReport(""); err != nil {
		t.Fatalf("PrintReport: %v", err)
	}

	text := out.String()
	if strings.Count(text, strings.Repeat("=", 80)) != 2 {
		t.Errorf("printed report missing rule lines:\n%s", text)
	}
	if !strings.Contains(text, "# "+model.DefaultReportTitle) {
		t.Errorf("printed report missing default title:\n%s", text)
	}
}

func TestPrintReport_PersistsFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	page := &fakePage{}
	agg := New(page, Options{
		AutoEmit:       false,
		Sink:           NewWriterSink(&strings.Builder{}),
		PersistReports: true,
		ReportDir:      dir,
		ReportPrefix:   "sess",
	})

	page.console(model.ConsoleEvent{Type: "error", Text: "boom"})
	if err := agg.PrintReport("Persisted"); err != nil {
		t.Fatalf("PrintReport: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("report files = %d, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "sess-") || !strings.HasSuffix(name, ".log") {
		t.Errorf("report filename = %q, want sess-<timestamp>.log", name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "# Persisted") {
		t.Errorf("persisted report missing title:\n%s", data)
	}
}
