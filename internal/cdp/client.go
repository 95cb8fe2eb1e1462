// Package cdp implements the page handle over the Chrome DevTools protocol:
// it subscribes to console, exception, network, and navigation events on a
// live page and delivers them on the PageEvents bus.
package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tinytelemetry/pagelog/internal/model"
)

// enabledDomains are sent on Start. Log mirrors network and violation
// entries the Runtime domain does not carry.
var enabledDomains = []string{"Runtime.enable", "Network.enable", "Page.enable", "Log.enable"}

// Client is a DevTools websocket client for one page target. Handlers run
// on the single read-loop goroutine, so delivery is strictly serialized.
type Client struct {
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	consoleFns  []func(model.ConsoleEvent)
	errorFns    []func(model.PageErrorEvent)
	responseFns []func(model.ResponseEvent)
	navFns      []func(model.NavigationEvent)
	nextID      int

	stopOnce sync.Once
	wg       sync.WaitGroup
}

type command struct {
	ID     int            `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// Dial connects to a page's websocket debugger URL. The connection is idle
// until Start; register handlers in between so no event is missed.
func Dial(ctx context.Context, wsURL string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cdp: dial %s: %w", wsURL, err)
	}
	cctx, cancel := context.WithCancel(ctx)
	return &Client{conn: conn, ctx: cctx, cancel: cancel}, nil
}

func (c *Client) OnConsole(fn func(model.ConsoleEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consoleFns = append(c.consoleFns, fn)
}

func (c *Client) OnPageError(fn func(model.PageErrorEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorFns = append(c.errorFns, fn)
}

func (c *Client) OnResponse(fn func(model.ResponseEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseFns = append(c.responseFns, fn)
}

func (c *Client) OnNavigation(fn func(model.NavigationEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navFns = append(c.navFns, fn)
}

// Start enables the protocol domains and begins event delivery.
func (c *Client) Start() error {
	for _, method := range enabledDomains {
		if err := c.send(method, nil); err != nil {
			return err
		}
	}
	c.wg.Add(1)
	go c.readLoop()
	return nil
}

// Stop tears the connection down. Safe to call more than once; registered
// handlers receive no further events afterwards.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close()
	})
	c.wg.Wait()
}

// Done is closed when the read loop exits, whether by Stop or by the
// browser ending the session.
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Client) send(method string, params map[string]any) error {
	c.mu.Lock()
	c.nextID++
	cmd := command{ID: c.nextID, Method: method, Params: params}
	c.mu.Unlock()

	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("cdp: marshal %s: %w", method, err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("cdp: send %s: %w", method, err)
	}
	return nil
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	defer c.cancel()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() == nil {
				log.Printf("cdp: read loop ended: %v", err)
			}
			return
		}
		c.dispatch(payload)
	}
}

// dispatch routes one protocol message to registered handlers. Command
// responses (messages with an id) are ignored.
func (c *Client) dispatch(payload []byte) {
	method, params, ok := decodeEvent(payload)
	if !ok {
		return
	}

	c.mu.Lock()
	consoleFns := c.consoleFns
	errorFns := c.errorFns
	responseFns := c.responseFns
	navFns := c.navFns
	c.mu.Unlock()

	switch method {
	case "Runtime.consoleAPICalled":
		ev := parseConsoleCall(params)
		for _, fn := range consoleFns {
			fn(ev)
		}
	case "Log.entryAdded":
		ev := parseLogEntry(params)
		for _, fn := range consoleFns {
			fn(ev)
		}
	case "Runtime.exceptionThrown":
		ev := parseException(params)
		for _, fn := range errorFns {
			fn(ev)
		}
	case "Network.responseReceived":
		ev := parseResponse(params)
		for _, fn := range responseFns {
			fn(ev)
		}
	case "Page.frameNavigated":
		ev, topLevel := parseNavigation(params)
		if !topLevel {
			return
		}
		for _, fn := range navFns {
			fn(ev)
		}
	}
}
