package metalsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// feedServer is an in-process stand-in for the upstream quote feed. It
// records the secret and every command frame, and answers each subscribe
// with one tick whose bid is the connection ordinal.
type feedServer struct {
	srv      *httptest.Server
	secrets  chan string
	commands chan string

	mu    sync.Mutex
	conns int

	// dropFirst closes the first connection right after its tick.
	dropFirst bool
}

func newFeedServer(t *testing.T, dropFirst bool) *feedServer {
	t.Helper()
	fs := &feedServer{
		secrets:   make(chan string, 4),
		commands:  make(chan string, 8),
		dropFirst: dropFirst,
	}
	upgrader := websocket.Upgrader{}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.secrets <- r.URL.Query().Get("secret")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fs.mu.Lock()
		fs.conns++
		n := fs.conns
		fs.mu.Unlock()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fs.commands <- string(msg)
			_ = conn.WriteJSON(map[string]any{
				"symbol": "GOLD", "bid": float64(n), "low": 1.0, "high": 2.0,
			})
			if n == 1 && fs.dropFirst {
				conn.Close()
				return
			}
		}
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *feedServer) url() string {
	return "ws" + strings.TrimPrefix(fs.srv.URL, "http")
}

func waitString(t *testing.T, ch chan string, what string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(10 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		return ""
	}
}

func TestClientSubscribeDeliversTicks(t *testing.T) {
	fs := newFeedServer(t, false)

	client := NewClient(fs.url(), "hush")
	defer client.Close()

	ticks := make(chan domain.Tick, 8)
	client.OnTick(func(tk domain.Tick) { ticks <- tk })

	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))
	assert.Equal(t, "hush", waitString(t, fs.secrets, "secret"))

	require.NoError(t, client.Subscribe(ctx, []string{"gold"}))
	assert.JSONEq(t, `{"type":"subscribe","symbols":["GOLD"]}`, waitString(t, fs.commands, "subscribe frame"))

	select {
	case tk := <-ticks:
		assert.Equal(t, "GOLD", tk.Symbol)
		assert.Equal(t, 1.0, tk.Bid)
	case <-time.After(10 * time.Second):
		t.Fatal("tick never arrived")
	}
}

func TestClientReconnectRestoresSubscription(t *testing.T) {
	fs := newFeedServer(t, true)

	client := NewClient(fs.url(), "hush")
	defer client.Close()

	ticks := make(chan domain.Tick, 8)
	client.OnTick(func(tk domain.Tick) { ticks <- tk })

	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))
	require.NoError(t, client.Subscribe(ctx, []string{"gold"}))
	assert.JSONEq(t, `{"type":"subscribe","symbols":["GOLD"]}`, waitString(t, fs.commands, "first subscribe"))

	// The server drops the first connection after its tick. The client must
	// reconnect, authenticate again and restore the subscription on its own.
	assert.Equal(t, "hush", waitString(t, fs.secrets, "first secret"))
	assert.Equal(t, "hush", waitString(t, fs.secrets, "reconnect secret"))
	assert.JSONEq(t, `{"type":"subscribe","symbols":["GOLD"]}`, waitString(t, fs.commands, "restored subscribe"))

	// Quote delivery resumes on the new connection.
	deadline := time.After(10 * time.Second)
	for {
		select {
		case tk := <-ticks:
			if tk.Bid == 2.0 {
				return
			}
		case <-deadline:
			t.Fatal("no tick after reconnect")
		}
	}
}
