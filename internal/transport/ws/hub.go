package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"hurdl/internal/service"
)

var _ service.Broadcaster = (*Hub)(nil)

// MessageType defines the type of WebSocket message
type MessageType string

// Dashboard message types
const (
	MsgConnected         MessageType = "connected"
	MsgResponseSubmitted MessageType = "response_submitted"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans dashboard events out to every connected admin
type Hub struct {
	conns map[*Connection]struct{}
	mu    sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message

	logger *zap.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	Username string
	Send     chan []byte
	Hub      *Hub
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("dashboard connected", zap.String("username", conn.Username))
			h.send(conn, &Message{Type: MsgConnected, Payload: json.RawMessage(`{}`)})

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.Send)
				h.logger.Info("dashboard disconnected", zap.String("username", conn.Username))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				h.send(conn, msg)
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) send(conn *Connection, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode ws message", zap.Error(err))
		return
	}
	select {
	case conn.Send <- data:
	default:
		// Drop message if buffer full
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Count returns the number of connected dashboards
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastToDashboards sends a message to every dashboard (implements service.Broadcaster)
func (h *Hub) BroadcastToDashboards(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode ws payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	h.broadcast <- &Message{
		Type:    MessageType(msgType),
		Payload: data,
	}
}
