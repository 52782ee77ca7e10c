// Package ws bridges the per-tenant rates channel to browser WebSocket
// clients. Each connection holds one reference on the tenant's feed session:
// the first socket starts the upstream feed, the last one closing tears it
// down.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/server/middleware"
	"github.com/aurumdesk/spotrate/internal/service"
)

const (
	// writeWait is the maximum time to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for a pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum size of an incoming message.
	maxMessageSize = 4096

	// sendBufferSize is the channel buffer for outgoing messages per client.
	sendBufferSize = 256
)

// upgrader configures the WebSocket upgrade parameters.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins. In production, restrict this to known origins.
		return true
	},
}

// Hub manages the rate-streaming WebSocket clients.
type Hub struct {
	sessions *service.SessionManager
	bus      domain.SignalBus
	logger   *slog.Logger

	mu      sync.Mutex
	clients int
}

// NewHub creates a Hub that streams rates views from the signal bus.
func NewHub(sessions *service.SessionManager, bus domain.SignalBus, logger *slog.Logger) *Hub {
	return &Hub{
		sessions: sessions,
		bus:      bus,
		logger:   logger.With(slog.String("component", "ws_hub")),
	}
}

// HandleWS upgrades an HTTP request to a WebSocket connection, acquires the
// tenant's feed session and streams its rates views until the client
// disconnects.
// GET /ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantID(r.Context())
	if tenantID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws: upgrade failed", slog.String("error", err.Error()))
		return
	}

	if _, err := h.sessions.Acquire(r.Context(), tenantID); err != nil {
		h.logger.Error("ws: acquire session failed",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()),
		)
		conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ratesCh, err := h.bus.Subscribe(ctx, service.RatesChannel(tenantID))
	if err != nil {
		h.logger.Error("ws: subscribe rates failed",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()),
		)
		cancel()
		h.sessions.Release(tenantID)
		conn.Close()
		return
	}

	c := &client{
		hub:      h,
		conn:     conn,
		tenantID: tenantID,
		cancel:   cancel,
		send:     make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients++
	total := h.clients
	h.mu.Unlock()
	h.logger.Info("ws: client connected",
		slog.String("tenant_id", tenantID),
		slog.Int("total_clients", total),
	)

	go c.forward(ctx, ratesCh)
	go c.writePump()
	go c.readPump()
}

// client represents a single WebSocket connection.
type client struct {
	hub      *Hub
	conn     *websocket.Conn
	tenantID string
	cancel   context.CancelFunc
	send     chan []byte

	closeOnce sync.Once
}

// forward moves rates payloads from the bus subscription into the client's
// send buffer, dropping messages when the client cannot keep up.
func (c *client) forward(ctx context.Context, ch <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			select {
			case c.send <- data:
			default:
				c.hub.logger.Warn("ws: dropping message for slow client",
					slog.String("tenant_id", c.tenantID),
				)
			}
		}
	}
}

// readPump consumes control frames and detects disconnects. Clients do not
// send application messages; anything inbound is ignored.
func (c *client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("ws: unexpected close error",
					slog.String("error", err.Error()),
				)
			}
			return
		}
	}
}

// writePump pumps rates payloads to the WebSocket connection as text frames
// and sends periodic ping frames for keepalive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close releases the session reference exactly once and tears the
// connection down.
func (c *client) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.conn.Close()
		c.hub.sessions.Release(c.tenantID)

		c.hub.mu.Lock()
		c.hub.clients--
		total := c.hub.clients
		c.hub.mu.Unlock()
		c.hub.logger.Info("ws: client disconnected",
			slog.String("tenant_id", c.tenantID),
			slog.Int("total_clients", total),
		)
	})
}
