package hub

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/weiawesome/wes-io-live/relay-service/internal/config"
	pkglog "github.com/weiawesome/wes-io-live/relay-service/pkg/log"
)

// Hub tracks all live WebSocket clients.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
	config  config.WebSocketConfig

	// pumps counts registered clients whose ReadPump has not finished.
	pumps sync.WaitGroup
}

// NewHub creates a new Hub.
func NewHub(cfg config.WebSocketConfig) *Hub {
	def := config.DefaultWebSocketConfig()
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = def.PongWait
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = def.WriteWait
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}

	return &Hub{
		clients: make(map[string]*Client),
		config:  cfg,
	}
}

// Register adds a client to the hub. The caller must then run the client's
// ReadPump, which marks the client finished for Shutdown.
func (h *Hub) Register(client *Client) {
	h.pumps.Add(1)
	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	l := pkglog.L()
	l.Debug().Str(pkglog.FieldClientID, client.id).Msg("client registered")
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.id]
	delete(h.clients, client.id)
	h.mu.Unlock()

	if ok {
		l := pkglog.L()
		l.Debug().Str(pkglog.FieldClientID, client.id).Msg("client unregistered")
	}
}

// Count returns the number of live clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown sends a going-away close frame to every client and closes the
// connections, then waits until every client's disconnect handler has run
// or ctx is done.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range clients {
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.config.WriteWait))
		c.conn.Close()
	}

	done := make(chan struct{})
	go func() {
		h.pumps.Wait()
		close(done)
	}()

	l := pkglog.L()
	select {
	case <-done:
		l.Info().Int("clients", len(clients)).Msg("hub shut down")
		return nil
	case <-ctx.Done():
		l.Warn().Int("clients", len(clients)).Msg("hub shutdown timed out waiting for clients")
		return ctx.Err()
	}
}
