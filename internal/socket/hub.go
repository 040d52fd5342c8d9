// Package socket pushes workflow events to connected employees.
package socket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is a workflow notification sent to exactly one employee, e.g. when a
// request of theirs is approved or rejected.
type Event struct {
	Kind      string      `json:"kind"` // request.approved, request.rejected, return.approved, return.rejected
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// client pairs a connection with the mutex that serializes writes to it.
// gorilla/websocket supports at most one concurrent writer per connection.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (cl *client) write(message []byte) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	return cl.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub tracks WebSocket connections keyed by employeeID.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
	log     *zap.Logger
}

// NewHub creates an empty Hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// Register adds a client connection for an employee, replacing any prior one.
func (h *Hub) Register(employeeID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[employeeID] = &client{conn: conn}
	h.log.Info("websocket client registered", zap.String("employeeID", employeeID))
}

// Unregister removes a client connection.
func (h *Hub) Unregister(employeeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[employeeID]; ok {
		delete(h.clients, employeeID)
		h.log.Info("websocket client unregistered", zap.String("employeeID", employeeID))
	}
}

// Notify sends an event to one employee. An offline employee is not an error;
// the workflow state itself is the source of truth and the push is best-effort.
func (h *Hub) Notify(employeeID string, kind string, payload interface{}) {
	h.mu.RLock()
	cl, ok := h.clients[employeeID]
	h.mu.RUnlock()

	if !ok {
		return
	}

	message, err := json.Marshal(Event{Kind: kind, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		h.log.Error("failed to marshal websocket event", zap.Error(err))
		return
	}

	if err := cl.write(message); err != nil {
		h.log.Warn("failed to push websocket event",
			zap.String("employeeID", employeeID), zap.Error(err))
	}
}
