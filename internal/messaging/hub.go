// internal/messaging/hub.go
package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"archnet/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// Event is a message pushed to connected clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans out live message events to each recipient's open websocket
// connections. A user may hold several connections (multiple tabs); events
// are delivered to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	logger  *zap.Logger
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub creates a websocket hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		logger:  logger,
	}
}

// HandleConnection registers a websocket connection for a user and blocks
// until it closes. The caller has already upgraded the connection and
// authenticated the user.
func (h *Hub) HandleConnection(ctx context.Context, userID string, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan Event, 32)}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("Websocket client connected", zap.String("user_id", userID))

	defer func() {
		h.mu.Lock()
		delete(h.clients[userID], c)
		if len(h.clients[userID]) == 0 {
			delete(h.clients, userID)
		}
		h.mu.Unlock()
		close(c.send)
		conn.Close()
		h.logger.Debug("Websocket client disconnected", zap.String("user_id", userID))
	}()

	go c.writePump(h.logger)
	c.readPump(ctx)
}

// NotifyMessage pushes a new direct message to the receiver's connections.
func (h *Hub) NotifyMessage(message *models.Message) {
	h.broadcast(message.ReceiverID, Event{Type: "message", Payload: message})
}

// NotifyConversationsChanged tells a user's clients to refetch the inbox.
func (h *Hub) NotifyConversationsChanged(userID string) {
	h.broadcast(userID, Event{Type: "conversations_changed"})
}

func (h *Hub) broadcast(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[userID] {
		select {
		case c.send <- event:
		default:
			// Slow client; drop the event rather than block the sender.
			h.logger.Warn("Dropping websocket event for slow client",
				zap.String("user_id", userID),
				zap.String("event_type", event.Type))
		}
	}
}

// ConnectedUsers returns the number of users with at least one open socket.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readPump drains the connection to process pongs and detect closure. Clients
// do not send application data over the socket; writes go through REST.
func (c *client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				logger.Debug("Websocket write failed", zap.Error(err))
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
