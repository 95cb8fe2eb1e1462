package model

// PageEvents is the observer contract a page handle exposes. Implementations
// invoke registered handlers once per delivered event; handlers registered
// after delivery starts only see subsequent events. Delivery may be
// serialized or concurrent depending on the host; consumers that mutate
// shared state must guard it themselves.
type PageEvents interface {
	OnConsole(func(ConsoleEvent))
	OnPageError(func(PageErrorEvent))
	OnResponse(func(ResponseEvent))
	OnNavigation(func(NavigationEvent))
}

// Sink receives best-effort live output lines. Implementations serialize
// their own writes; callers ignore write failures.
type Sink interface {
	WriteLine(line string) error
}

// RecordReader is the read-only query contract over accumulated records,
// implemented by the aggregator and consumed by the HTTP API.
type RecordReader interface {
	Summary() Summary
	Render(title string) string
	Records() []LogRecord
}
