package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/weiawesome/wes-io-live/relay-service/internal/domain"
	pkglog "github.com/weiawesome/wes-io-live/relay-service/pkg/log"
)

// DisconnectHandler is called once when a client's read loop ends.
type DisconnectHandler func(*Client)

// MessageHandler receives each inbound text frame.
type MessageHandler func(*Client, []byte)

// Client represents a connected WebSocket client.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	session *domain.Session

	mu     sync.RWMutex
	send   chan []byte
	closed bool

	disconnectHandler DisconnectHandler
}

// NewClient wraps an upgraded connection.
func NewClient(id string, h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:      id,
		hub:     h,
		conn:    conn,
		session: domain.NewSession(id),
		send:    make(chan []byte, h.config.SendBuffer),
	}
}

// ID returns the connection id.
func (c *Client) ID() string { return c.id }

// Session returns the signaling state of this connection.
func (c *Client) Session() *domain.Session { return c.session }

// SetDisconnectHandler sets the handler to be called on disconnect.
func (c *Client) SetDisconnectHandler(handler DisconnectHandler) {
	c.disconnectHandler = handler
}

// IsOpen reports whether the client still accepts messages.
func (c *Client) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

// SendMessage encodes message and queues it. A full queue or a closed
// client drops the message.
func (c *Client) SendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
	default:
		l := pkglog.L()
		l.Warn().Str(pkglog.FieldClientID, c.id).Msg("send buffer full, message dropped")
	}
	return nil
}

// closeSend stops accepting messages and lets WritePump finish.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump pumps messages from the WebSocket connection to handler. It
// returns after the connection fails and the disconnect handler has run.
func (c *Client) ReadPump(handler MessageHandler) {
	defer func() {
		c.closeSend()
		if c.disconnectHandler != nil {
			c.disconnectHandler(c)
		}
		c.hub.Unregister(c)
		c.conn.Close()
		c.hub.pumps.Done()
	}()

	cfg := c.hub.config
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l := pkglog.L()
				l.Debug().Err(err).Str(pkglog.FieldClientID, c.id).Msg("websocket read error")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		handler(c, message)
	}
}

// WritePump pumps queued messages to the WebSocket connection and keeps it
// alive with pings.
func (c *Client) WritePump() {
	cfg := c.hub.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
