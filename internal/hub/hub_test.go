package hub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesRegisteredClients(t *testing.T) {
	h := NewHub()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		h.Register(conn)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server handler a moment to register the connection.
	time.Sleep(50 * time.Millisecond)

	h.Broadcast(EventUpdate, map[string]interface{}{
		"announcement_id": "a-1",
		"status":          "completed",
	})

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, EventUpdate, env.Event)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a-1", data["announcement_id"])
	assert.Equal(t, "completed", data["status"])
}

func TestHub_UnregisteredClientGetsNothing(t *testing.T) {
	h := NewHub()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	registered := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		h.Register(conn)
		registered <- conn
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	serverConn := <-registered
	h.Unregister(serverConn)

	h.Broadcast(EventReceived, map[string]interface{}{"announcement_id": "a-1"})

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var env Envelope
	err = conn.ReadJSON(&env)
	assert.Error(t, err, "unregistered client should not receive broadcasts")
}
