package notifications

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"pawcircle/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// Max total connections per instance.
const maxTotalConns = 10000

var ErrConnectionLimit = errors.New("server connection limit reached")

// Hub tracks the websocket clients of one feed.
type Hub struct {
	name    string
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	// wired is set while a Redis subscription feeds this hub.
	wired atomic.Bool
}

func NewHub(name string) *Hub {
	return &Hub{name: name, clients: make(map[*Client]struct{})}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return h.name }

// Register adds a connection. memberID may be empty.
func (h *Hub) Register(conn *websocket.Conn, memberID string) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || len(h.clients) >= maxTotalConns {
		return nil, ErrConnectionLimit
	}
	client := newClient(h, conn, memberID)
	h.clients[client] = struct{}{}
	observability.WebSocketConnectionsTotal.Inc()
	return client, nil
}

// Unregister removes client and closes its send buffer. It is safe to call twice.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	observability.WebSocketConnectionsTotal.Dec()
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll sends message to every connected client.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.clients {
		c.TrySend(data)
	}
}

// StartWiring forwards broadcast events published through n to this hub's clients.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	if !n.Enabled() {
		return nil
	}
	if err := n.StartBroadcastSubscriber(ctx, h.BroadcastAll, func() { h.wired.Store(false) }); err != nil {
		return err
	}
	h.wired.Store(true)
	return nil
}

// Wired reports whether a Redis subscription currently feeds this hub.
func (h *Hub) Wired() bool { return h.wired.Load() }

// Shutdown closes every client's send buffer, which makes WritePump send a
// close frame and hang up.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.Send)
		observability.WebSocketConnectionsTotal.Dec()
	}
	return nil
}
