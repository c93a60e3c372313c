package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"isl_signage/internal/config"
	"isl_signage/internal/live"
	"isl_signage/internal/logger"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	settings := config.LoadSignboardSettings()
	timeout := time.Duration(settings.RequestTimeoutSec) * time.Second

	store := live.NewStore(settings.MediaBaseURL)
	client := live.NewClient(settings.ServerURL, timeout)
	feed := live.NewFeed(store, client, settings.SocketURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go feed.Run(ctx)

	// SIGHUP runs the clear operation: purge upstream, empty the slot,
	// clean up transient media.
	clearCh := make(chan os.Signal, 1)
	signal.Notify(clearCh, syscall.SIGHUP)
	go func() {
		for range clearCh {
			if err := live.Clear(ctx, client, store); err != nil {
				logrus.WithError(err).Error("Clear operation failed")
				continue
			}
			logrus.Info("Announcements cleared")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"server": settings.ServerURL,
		"socket": settings.SocketURL,
	}).Info("Signboard display agent started")

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Signboard shutting down")
			return
		case <-ticker.C:
			logDisplayState(store, feed)
		}
	}
}

// logDisplayState reports what the board would currently show. A real kiosk
// frontend reads the same store; this keeps headless deployments observable.
func logDisplayState(store *live.Store, feed *live.Feed) {
	ann, ok := store.Current()
	if !ok {
		logrus.WithField("connected", feed.Connected()).Debug("Display idle, no active announcement")
		return
	}

	logrus.WithFields(logrus.Fields{
		"announcement_id": ann.ID,
		"status":          ann.Status,
		"video_url":       store.PresentationURL(),
		"connected":       feed.Connected(),
	}).Info("Display state")
}
