package live

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// joinMessage is sent immediately after connecting, before any events are
// delivered.
type joinMessage struct {
	Event string `json:"event"`
}

// Feed is the long-lived consumer of the status channel. It owns the only
// goroutine that writes into the Store: each (re)connect seeds the slot from
// a snapshot fetch, then applies pushed events until the connection drops.
// There is no replay of events missed while disconnected — the next snapshot
// is the recovery mechanism.
type Feed struct {
	store     *Store
	client    *Client
	socketURL string
	dialer    *websocket.Dialer
	backoff   time.Duration
	connected atomic.Bool
}

// NewFeed wires a feed over the given store, REST client and websocket URL.
func NewFeed(store *Store, client *Client, socketURL string) *Feed {
	return &Feed{
		store:     store,
		client:    client,
		socketURL: socketURL,
		dialer:    websocket.DefaultDialer,
		backoff:   3 * time.Second,
	}
}

// Connected reports whether the feed currently holds a live connection.
func (f *Feed) Connected() bool {
	return f.connected.Load()
}

// Run connects, consumes and reconnects until the context is cancelled.
// A transport failure is not an application error: the feed marks itself
// disconnected, waits, and starts over with a fresh snapshot.
func (f *Feed) Run(ctx context.Context) {
	for {
		if err := f.connectAndConsume(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logrus.Info("Status channel feed stopped")
				return
			}
			logrus.WithError(err).Warn("Status channel connection lost, reconnecting")
		}

		select {
		case <-ctx.Done():
			logrus.Info("Status channel feed stopped")
			return
		case <-time.After(f.backoff):
		}
	}
}

func (f *Feed) connectAndConsume(ctx context.Context) error {
	// Seed from the pull snapshot first so an observer attaching after the
	// initial push still sees the current announcement.
	if err := f.resync(ctx); err != nil {
		return err
	}

	conn, _, err := f.dialer.DialContext(ctx, f.socketURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.WriteJSON(joinMessage{Event: "join_live_announcements"}); err != nil {
		return err
	}

	f.connected.Store(true)
	defer f.connected.Store(false)
	logrus.WithField("url", f.socketURL).Info("Connected to status channel")

	// Tear the connection down when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		ev, err := DecodeEvent(raw)
		if err != nil {
			if errors.Is(err, ErrUnknownEvent) {
				logrus.WithError(err).Debug("Skipping unhandled status channel frame")
				continue
			}
			logrus.WithError(err).WithField("payload", string(raw)).Warn("Dropping malformed status channel frame")
			continue
		}

		f.store.Apply(ev)
	}
}

func (f *Feed) resync(ctx context.Context) error {
	items, err := f.client.FetchAnnouncements(ctx)
	if err != nil {
		return err
	}
	f.store.Seed(items)
	logrus.WithField("items", len(items)).Debug("Seeded live slot from snapshot")
	return nil
}
