package cdp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discoverServer(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/list" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestDiscoverWSURL_PicksFirstPageTarget(t *testing.T) {
	t.Parallel()
	addr := discoverServer(t, `[
		{"type":"service_worker","webSocketDebuggerUrl":"ws://x/worker"},
		{"type":"page","webSocketDebuggerUrl":"ws://x/page1"},
		{"type":"page","webSocketDebuggerUrl":"ws://x/page2"}
	]`)
	got, err := DiscoverWSURL(context.Background(), addr)
	if err != nil {
		t.Fatalf("DiscoverWSURL: %v", err)
	}
	if got != "ws://x/page1" {
		t.Errorf("wsURL = %q, want ws://x/page1", got)
	}
}

func TestDiscoverWSURL_NoPageTarget(t *testing.T) {
	t.Parallel()
	addr := discoverServer(t, `[{"type":"background_page","webSocketDebuggerUrl":"ws://x/bg"}]`)
	_, err := DiscoverWSURL(context.Background(), addr)
	if !errors.Is(err, ErrNoPageTarget) {
		t.Errorf("err = %v, want ErrNoPageTarget", err)
	}
}

func TestDiscoverWSURL_Unreachable(t *testing.T) {
	t.Parallel()
	if _, err := DiscoverWSURL(context.Background(), "127.0.0.1:1"); err == nil {
		t.Error("err = nil, want connection error")
	}
}
