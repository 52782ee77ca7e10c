// Package metalsfeed is a WebSocket client for the upstream precious-metal
// quote stream. It authenticates with a shared secret, manages symbol
// subscriptions, and dispatches ticks to registered handlers, reconnecting
// with backoff on disconnect.
package metalsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aurumdesk/spotrate/internal/domain"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to the peer at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// handshakeTimeout bounds the WebSocket dial.
	handshakeTimeout = 15 * time.Second

	// reconnectDelay is the base delay before attempting to reconnect.
	reconnectDelay = 2 * time.Second

	// maxReconnectDelay caps the exponential backoff for reconnection.
	maxReconnectDelay = 60 * time.Second
)

// TickHandler is called for every inbound market data event.
type TickHandler func(domain.Tick)

// Client is a WebSocket client for the metals quote feed. It manages the
// connection lifecycle and subscriptions; subscribed symbols are restored
// automatically after a reconnect, so callers never re-subscribe themselves.
type Client struct {
	feedURL string
	secret  string

	mu     sync.RWMutex
	conn   *websocket.Conn
	closed bool

	// writeMu serializes frame writes; gorilla/websocket allows only one
	// concurrent writer and pings run outside c.mu.
	writeMu sync.Mutex

	// Symbols to restore on reconnect.
	subscribed []string

	handlerMu sync.RWMutex
	handlers  []TickHandler

	// done is closed when the client is shut down.
	done chan struct{}
}

// NewClient creates a feed client for the given WebSocket URL. The shared
// secret is passed as a query parameter on connect.
func NewClient(feedURL, secret string) *Client {
	return &Client{
		feedURL: feedURL,
		secret:  secret,
		done:    make(chan struct{}),
	}
}

// Connect establishes the WebSocket connection and authenticates with the
// shared secret.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("metalsfeed: %w", domain.ErrFeedClosed)
	}

	u, err := url.Parse(c.feedURL)
	if err != nil {
		return fmt.Errorf("metalsfeed: parse url: %w", err)
	}
	qs := u.Query()
	qs.Set("secret", c.secret)
	u.RawQuery = qs.Encode()

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("metalsfeed: connect: %w", err)
	}

	c.conn = conn

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.readLoop(conn)
	go c.pingLoop(conn)

	// Restore the subscription after a reconnect.
	if len(c.subscribed) > 0 {
		if err := c.sendCommand(command{Type: "subscribe", Symbols: c.subscribed}); err != nil {
			return fmt.Errorf("metalsfeed: restore subscription: %w", err)
		}
	}

	return nil
}

// Subscribe registers the given symbols (uppercased, deduplicated) with the
// feed and tracks them for restoration after reconnects.
func (c *Client) Subscribe(ctx context.Context, symbols []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("metalsfeed: not connected")
	}

	added := c.track(symbols)
	if len(added) == 0 {
		return nil
	}
	if err := c.sendCommand(command{Type: "subscribe", Symbols: added}); err != nil {
		return fmt.Errorf("metalsfeed: subscribe: %w", err)
	}
	return nil
}

// Unsubscribe removes the given symbols from the feed and from the tracked
// subscription list.
func (c *Client) Unsubscribe(ctx context.Context, symbols []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("metalsfeed: not connected")
	}

	drop := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		drop[strings.ToUpper(s)] = struct{}{}
	}

	removed := make([]string, 0, len(drop))
	kept := c.subscribed[:0]
	for _, s := range c.subscribed {
		if _, gone := drop[s]; gone {
			removed = append(removed, s)
		} else {
			kept = append(kept, s)
		}
	}
	c.subscribed = kept

	if len(removed) == 0 {
		return nil
	}
	if err := c.sendCommand(command{Type: "unsubscribe", Symbols: removed}); err != nil {
		return fmt.Errorf("metalsfeed: unsubscribe: %w", err)
	}
	return nil
}

// OnTick registers a handler that is called for every inbound tick.
func (c *Client) OnTick(handler TickHandler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Close shuts down the connection and stops the read and ping loops.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)

	if c.conn != nil {
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		c.writeMu.Unlock()
		return c.conn.Close()
	}

	return nil
}

// track uppercases and dedupes symbols against the current subscription,
// returning only the new ones. Caller must hold c.mu.
func (c *Client) track(symbols []string) []string {
	have := make(map[string]struct{}, len(c.subscribed))
	for _, s := range c.subscribed {
		have[s] = struct{}{}
	}

	var added []string
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			continue
		}
		if _, ok := have[sym]; ok {
			continue
		}
		have[sym] = struct{}{}
		c.subscribed = append(c.subscribed, sym)
		added = append(added, sym)
	}
	return added
}

// sendCommand sends a JSON command frame. Caller must hold c.mu.
func (c *Client) sendCommand(cmd command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop reads messages from the given connection and dispatches ticks
// until the connection drops or the client is closed. On disconnect it
// triggers the reconnect cycle; missed ticks are never replayed, the next
// tick simply wins.
func (c *Client) readLoop(conn *websocket.Conn) {
	defer conn.Close()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			c.reconnect()
			return // the new connection starts its own readLoop
		}

		c.handleMessage(message)
	}
}

// pingLoop keeps the connection alive with periodic pings.
func (c *Client) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// handleMessage parses a raw frame and dispatches it to tick handlers.
// Unparseable or symbol-less frames are dropped silently.
func (c *Client) handleMessage(raw []byte) {
	var msg TickMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if msg.Symbol == "" {
		return
	}

	tick := msg.Domain()

	c.handlerMu.RLock()
	handlers := c.handlers
	c.handlerMu.RUnlock()

	for _, h := range handlers {
		h(tick)
	}
}

// reconnect re-establishes the connection with exponential backoff. It
// blocks until successful or the client is closed. Connect restores the
// tracked subscription, so callers see quote delivery resume without acting.
func (c *Client) reconnect() {
	delay := reconnectDelay

	for {
		select {
		case <-c.done:
			return
		default:
		}

		time.Sleep(delay)

		ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
		err := c.Connect(ctx)
		cancel()

		if err == nil {
			return
		}

		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}
