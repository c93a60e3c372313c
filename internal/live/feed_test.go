package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves both the snapshot endpoint and the status channel
// websocket, pushing the given frames to a client once it joins.
type fakeBackend struct {
	snapshot []SnapshotItem
	frames   []string
	joined   chan struct{}
}

func newFakeBackend(snapshot []SnapshotItem, frames ...string) *fakeBackend {
	return &fakeBackend{snapshot: snapshot, frames: frames, joined: make(chan struct{}, 1)}
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/live-announcements/list":
			json.NewEncoder(w).Encode(b.snapshot)

		case "/ws/announcements":
			conn, err := upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)
			defer conn.Close()

			var join joinMessage
			require.NoError(t, conn.ReadJSON(&join))
			assert.Equal(t, "join_live_announcements", join.Event)
			b.joined <- struct{}{}

			for _, frame := range b.frames {
				require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
			}
			// Hold the connection until the client goes away.
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}

		default:
			http.NotFound(w, r)
		}
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestFeed_SeedsThenAppliesEvents(t *testing.T) {
	backend := newFakeBackend(
		[]SnapshotItem{{AnnouncementID: "a-1", TrainNumber: "12951", Status: StatusGeneratingVideo}},
		`{"event":"announcement_update","data":{"announcement_id":"a-1","status":"completed","message":"done","progress_percentage":100,"video_url":"/media/a-1.mp4"}}`,
	)
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	store := NewStore("http://signage:8080")
	client := NewClient(server.URL, 5*time.Second)
	socketURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/announcements"
	feed := NewFeed(store, client, socketURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx)

	<-backend.joined

	// Seeded from the snapshot before any push arrived.
	waitFor(t, func() bool {
		ann, ok := store.Current()
		return ok && ann.ID == "a-1"
	})

	// The pushed completion lands on the seeded announcement.
	waitFor(t, func() bool {
		ann, ok := store.Current()
		return ok && ann.Status == StatusCompleted
	})
	assert.Equal(t, "http://signage:8080/media/a-1.mp4", store.PresentationURL())
	assert.True(t, feed.Connected())
}

func TestFeed_SkipsUnknownAndMalformedFrames(t *testing.T) {
	backend := newFakeBackend(
		nil,
		`{"event":"joined_room","data":{"room":"live_announcements"}}`,
		`this is not json`,
		`{"event":"announcement_update","data":{"status":"completed"}}`,
		`{"event":"announcement_received","data":{"announcement_id":"a-7","train_number":"12007","status":"received"}}`,
	)
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	store := NewStore("http://signage:8080")
	client := NewClient(server.URL, 5*time.Second)
	socketURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/announcements"
	feed := NewFeed(store, client, socketURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx)

	<-backend.joined

	// Only the well-formed creation at the end survives the noise.
	waitFor(t, func() bool {
		ann, ok := store.Current()
		return ok && ann.ID == "a-7"
	})
}

func TestFeed_EmptySnapshotEmptiesSlot(t *testing.T) {
	backend := newFakeBackend(nil)
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	store := NewStore("http://signage:8080")
	store.Apply(creationEvent("stale"))

	client := NewClient(server.URL, 5*time.Second)
	socketURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/announcements"
	feed := NewFeed(store, client, socketURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx)

	<-backend.joined

	waitFor(t, func() bool {
		_, ok := store.Current()
		return !ok
	})
}
