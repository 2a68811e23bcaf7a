package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"lokapasar/pkg/logger"
)

// Push is the envelope for server-to-client events: new messages, unread
// count changes, order status updates.
type Push struct {
	Type    string      `json:"type"` // "message", "unread", "order_status"
	Payload interface{} `json:"payload"`
}

// Client represents one user's WebSocket connection
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager tracks active connections and routes pushes to users. Inbound
// client frames are handed to HandleInbound, set once at wiring time.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex

	HandleInbound func(userID string, payload []byte)

	// OnDisconnect fires after a user's last connection drops.
	OnDisconnect func(userID string)
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if existing, ok := m.clients[client.UserID]; ok {
					close(existing.Send)
				}
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				logger.Info("ws: client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				gone := false
				if current, ok := m.clients[client.UserID]; ok && current == client {
					delete(m.clients, client.UserID)
					close(client.Send)
					gone = true
				}
				m.mutex.Unlock()
				if gone && m.OnDisconnect != nil {
					m.OnDisconnect(client.UserID)
				}
				logger.Info("ws: client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// PushToUser sends an event to one user if connected. Disconnected users
// are skipped; they catch up from the store on reconnect.
func (m *Manager) PushToUser(userID string, push Push) {
	payload, err := json.Marshal(push)
	if err != nil {
		logger.Error("ws: failed to marshal push: %v", err)
		return
	}

	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- payload:
	default:
		logger.Warn("ws: dropping push for slow client %s", userID)
	}
}

// PushToUsers fans one event out to several users.
func (m *Manager) PushToUsers(userIDs []string, push Push) {
	for _, userID := range userIDs {
		m.PushToUser(userID, push)
	}
}

// ReadPump reads frames from the connection until it drops.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: read error for %s: %v", c.UserID, err)
			}
			break
		}

		if m.HandleInbound != nil {
			m.HandleInbound(c.UserID, payload)
		}
	}
}

// WritePump writes queued pushes to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("ws: write error for %s: %v", c.UserID, err)
			return
		}
	}
}
