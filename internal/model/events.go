package model

// ConsoleEvent is one console API call observed on the page.
// Line and Column are 1-based; zero means unknown.
type ConsoleEvent struct {
	Type   string // host level tag ("log", "warning", "error", ...), case-insensitive
	URL    string
	Line   int
	Column int
	Text   string
}

// PageErrorEvent is an uncaught script exception reported by the page.
type PageErrorEvent struct {
	Message string
	Stack   string // optional multi-line stack trace
}

// ResponseEvent is a completed network response observed on the page.
type ResponseEvent struct {
	URL        string
	Status     int
	StatusText string
}

// NavigationEvent is a top-level navigation of the observed page.
type NavigationEvent struct {
	URL string
}
