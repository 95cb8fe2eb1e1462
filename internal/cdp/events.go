package cdp

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tinytelemetry/pagelog/internal/model"
)

// decodeEvent splits a protocol message into method and params. Messages
// carrying an id are command responses, not events.
func decodeEvent(payload []byte) (method string, params gjson.Result, ok bool) {
	root := gjson.ParseBytes(payload)
	if root.Get("id").Exists() {
		return "", gjson.Result{}, false
	}
	m := root.Get("method")
	if !m.Exists() {
		return "", gjson.Result{}, false
	}
	return m.String(), root.Get("params"), true
}

// parseConsoleCall maps Runtime.consoleAPICalled onto a console event. The
// first call frame supplies the origin; protocol line/column numbers are
// zero-based and shift to the 1-based display convention here.
func parseConsoleCall(params gjson.Result) model.ConsoleEvent {
	ev := model.ConsoleEvent{
		Type: params.Get("type").String(),
		Text: joinArgs(params.Get("args")),
	}
	if frame := params.Get("stackTrace.callFrames.0"); frame.Exists() {
		ev.URL = frame.Get("url").String()
		ev.Line = int(frame.Get("lineNumber").Int()) + 1
		ev.Column = int(frame.Get("columnNumber").Int()) + 1
	}
	return ev
}

// joinArgs renders remote argument previews the way a console would:
// primitive values verbatim, objects by description, space-separated.
func joinArgs(args gjson.Result) string {
	var parts []string
	args.ForEach(func(_, arg gjson.Result) bool {
		switch {
		case arg.Get("value").Exists():
			parts = append(parts, arg.Get("value").String())
		case arg.Get("description").Exists():
			parts = append(parts, arg.Get("description").String())
		default:
			parts = append(parts, arg.Get("type").String())
		}
		return true
	})
	return strings.Join(parts, " ")
}

// parseLogEntry maps Log.entryAdded (network errors, violations) onto the
// same console event shape.
func parseLogEntry(params gjson.Result) model.ConsoleEvent {
	entry := params.Get("entry")
	ev := model.ConsoleEvent{
		Type: entry.Get("level").String(),
		URL:  entry.Get("url").String(),
		Text: entry.Get("text").String(),
	}
	if n := entry.Get("lineNumber"); n.Exists() {
		ev.Line = int(n.Int()) + 1
	}
	return ev
}

// parseException maps Runtime.exceptionThrown onto a page-error event. The
// exception description doubles as the stack trace: V8 renders it message
// first, frames below.
func parseException(params gjson.Result) model.PageErrorEvent {
	details := params.Get("exceptionDetails")
	description := details.Get("exception.description").String()
	if description == "" {
		description = details.Get("text").String()
	}

	message := description
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return model.PageErrorEvent{
		Message: strings.TrimSpace(message),
		Stack:   description,
	}
}

// parseResponse maps Network.responseReceived onto a response event.
func parseResponse(params gjson.Result) model.ResponseEvent {
	resp := params.Get("response")
	return model.ResponseEvent{
		URL:        resp.Get("url").String(),
		Status:     int(resp.Get("status").Int()),
		StatusText: resp.Get("statusText").String(),
	}
}

// parseNavigation maps Page.frameNavigated onto a navigation event.
// Only frames without a parent are top-level navigations.
func parseNavigation(params gjson.Result) (model.NavigationEvent, bool) {
	frame := params.Get("frame")
	if frame.Get("parentId").Exists() {
		return model.NavigationEvent{}, false
	}
	return model.NavigationEvent{URL: frame.Get("url").String()}, true
}
