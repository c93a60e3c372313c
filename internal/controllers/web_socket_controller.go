package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"isl_signage/internal/hub"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// clientMessage is what signboard clients send after connecting. The only
// message they are expected to send is the room join.
type clientMessage struct {
	Event string `json:"event"`
}

// WebSocketController upgrades signboard connections and attaches them to
// the announcement status channel.
type WebSocketController struct {
	hub *hub.Hub
}

func NewWebSocketController(h *hub.Hub) *WebSocketController {
	return &WebSocketController{hub: h}
}

// HandleAnnouncementSocket handles /ws/announcements. A client must send the
// join_live_announcements message before it receives any events; anything
// else it sends afterwards is ignored.
func (wc *WebSocketController) HandleAnnouncementSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	if !waitForJoin(conn) {
		return
	}

	joined := hub.Envelope{
		Event: "joined_room",
		Data:  map[string]string{"room": "live_announcements"},
	}
	if err := conn.WriteJSON(joined); err != nil {
		logrus.WithError(err).Warn("Failed to confirm room join, closing connection.")
		return
	}

	wc.hub.Register(conn)
	defer wc.hub.Unregister(conn)

	// Hold the connection open until the client goes away. Events are pushed
	// by the hub's broadcast loop; reads here only detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Warn("Announcement socket closed unexpectedly.")
			}
			return
		}
	}
}

// waitForJoin reads messages until the client sends the room join. Unknown
// messages before the join are logged and skipped.
func waitForJoin(conn *websocket.Conn) bool {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			logrus.WithError(err).Debug("Client disconnected before joining room.")
			return false
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logrus.WithError(err).Warn("Malformed message before room join, ignoring.")
			continue
		}
		if msg.Event == "join_live_announcements" {
			return true
		}
		logrus.WithField("event", msg.Event).Warn("Unexpected event before room join, ignoring.")
	}
}
