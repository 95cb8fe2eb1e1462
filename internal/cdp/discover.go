package cdp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const discoverTimeout = 5 * time.Second

// ErrNoPageTarget is returned when the browser exposes no page target.
var ErrNoPageTarget = errors.New("cdp: no page target found")

// DiscoverWSURL asks a browser's devtools HTTP endpoint (host:port) for its
// open targets and returns the websocket debugger URL of the first page.
func DiscoverWSURL(ctx context.Context, devtoolsAddr string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, discoverTimeout)
	defer cancel()

	url := fmt.Sprintf("http://%s/json/list", devtoolsAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("cdp: build discover request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cdp: discover targets at %s: %w", devtoolsAddr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cdp: discover targets: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cdp: read target list: %w", err)
	}

	var wsURL string
	gjson.ParseBytes(body).ForEach(func(_, target gjson.Result) bool {
		if target.Get("type").String() != "page" {
			return true
		}
		wsURL = target.Get("webSocketDebuggerUrl").String()
		return wsURL == ""
	})
	if wsURL == "" {
		return "", ErrNoPageTarget
	}
	return wsURL, nil
}
