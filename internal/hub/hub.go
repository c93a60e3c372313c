package hub

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Envelope is the wire frame carried over the status channel. Every event
// relates to one announcement; the data shape depends on the event name.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Event names emitted to the live_announcements room.
const (
	EventReceived = "announcement_received"
	EventUpdate   = "announcement_update"
	EventError    = "announcement_error"
)

// Hub manages the websocket connections of signboard clients that joined the
// live_announcements room and fans announcement events out to them.
// Delivery is fire-and-forget: a slow client gets its message dropped rather
// than stalling the broadcast loop.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan Envelope
	mu        sync.Mutex
}

// NewHub creates a Hub and starts its broadcast goroutine.
func NewHub() *Hub {
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Envelope, 100),
	}
	go h.run()
	return h
}

// run delivers queued events to every joined client.
func (h *Hub) run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(msg); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client connection closed during broadcast, removing.")
					delete(h.clients, conn)
				} else {
					logrus.WithError(err).WithField("conn_ptr", fmt.Sprintf("%p", conn)).Warn("Failed to send announcement event to client.")
				}
			}
		}
		h.mu.Unlock()
	}
}

// Register adds a client connection that completed the room join.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client joined live announcements room.")
}

// Unregister removes a disconnected client connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client left live announcements room.")
}

// Broadcast queues an event for delivery to all joined clients.
func (h *Hub) Broadcast(event string, data interface{}) {
	select {
	case h.broadcast <- Envelope{Event: event, Data: data}:
		// Queued for the broadcast loop.
	default:
		logrus.Warn("Announcement broadcast channel full, dropping event.")
	}
}
