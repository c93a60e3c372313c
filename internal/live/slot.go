package live

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Announcement status values, mirroring the server's lifecycle.
const (
	StatusReceived        = "received"
	StatusProcessing      = "processing"
	StatusGeneratingVideo = "generating_video"
	StatusCompleted       = "completed"
	StatusError           = "error"
)

// genericErrorMessage is applied on a bare error event, which carries no
// human-readable status message of its own.
const genericErrorMessage = "Announcement processing failed"

// doubledPrefix is a known upstream artifact in media references.
const doubledPrefix = "/api/v1/api/v1/"

// Announcement is the signboard's view of the most recent announcement.
type Announcement struct {
	ID                   string
	TrainNumber          string
	TrainName            string
	FromStation          string
	ToStation            string
	PlatformNumber       int
	AnnouncementCategory string
	AIAvatarModel        string
	Status               string
	Message              string
	Progress             *int
	VideoURL             string
	ErrorMessage         string
	ReceivedAt           time.Time
	UpdatedAt            time.Time
}

// Store holds at most one announcement — the most recent one — plus the
// derived playable-media reference. All mutation goes through Apply, Seed
// and Clear under one mutex; the websocket feed is the only event writer.
type Store struct {
	mu        sync.RWMutex
	current   *Announcement
	mediaBase string
}

// NewStore creates an empty store. mediaBase is the host relative video
// references are resolved against, e.g. "http://signage-server:8080".
func NewStore(mediaBase string) *Store {
	return &Store{mediaBase: strings.TrimSuffix(mediaBase, "/")}
}

// Apply feeds one status channel event into the state machine.
//
// A creation event replaces the slot wholesale regardless of the previous
// state. Update and error events apply only when their id matches the held
// announcement; anything else is noise from a stale subscription and is
// dropped. Duplicate updates are idempotent. Out-of-order but validly
// shaped updates are accepted as-is.
func (s *Store) Apply(ev *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case KindCreation:
		c := ev.Creation
		s.current = &Announcement{
			ID:                   c.AnnouncementID,
			TrainNumber:          c.TrainNumber,
			TrainName:            c.TrainName,
			FromStation:          c.FromStation,
			ToStation:            c.ToStation,
			PlatformNumber:       c.PlatformNumber,
			AnnouncementCategory: c.AnnouncementCategory,
			AIAvatarModel:        c.AIAvatarModel,
			Status:               c.Status,
			Message:              c.Message,
			ReceivedAt:           parseEventTime(c.ReceivedAt),
			UpdatedAt:            parseEventTime(c.ReceivedAt),
		}
		logrus.WithFields(logrus.Fields{
			"announcement_id": c.AnnouncementID,
			"train_number":    c.TrainNumber,
		}).Info("New live announcement")

	case KindUpdate:
		u := ev.Update
		if s.current == nil || s.current.ID != u.AnnouncementID {
			logrus.WithField("announcement_id", u.AnnouncementID).Debug("Dropping update for unknown announcement")
			return
		}
		s.current.Status = u.Status
		s.current.Message = u.Message
		if u.ProgressPercentage != nil {
			s.current.Progress = u.ProgressPercentage
		}
		if u.VideoURL != nil {
			s.current.VideoURL = *u.VideoURL
		}
		if u.ErrorMessage != nil {
			s.current.ErrorMessage = *u.ErrorMessage
		}
		s.current.UpdatedAt = laterTime(s.current.UpdatedAt, parseEventTime(u.UpdatedAt))

	case KindError:
		e := ev.Err
		if s.current == nil || s.current.ID != e.AnnouncementID {
			logrus.WithField("announcement_id", e.AnnouncementID).Debug("Dropping error for unknown announcement")
			return
		}
		s.current.Status = StatusError
		s.current.Message = genericErrorMessage
		s.current.ErrorMessage = e.ErrorMessage
		s.current.UpdatedAt = laterTime(s.current.UpdatedAt, time.Now().UTC())
	}
}

// Seed replaces the slot from a snapshot fetch. The snapshot list holds
// zero or one element; an empty list empties the slot, which covers an
// upstream clear that happened while disconnected.
func (s *Store) Seed(items []SnapshotItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		s.current = nil
		return
	}

	item := items[0]
	ann := &Announcement{
		ID:                   item.AnnouncementID,
		TrainNumber:          item.TrainNumber,
		TrainName:            item.TrainName,
		FromStation:          item.FromStation,
		ToStation:            item.ToStation,
		PlatformNumber:       item.PlatformNumber,
		AnnouncementCategory: item.AnnouncementCategory,
		AIAvatarModel:        item.AIAvatarModel,
		Status:               item.Status,
		Message:              item.Message,
		Progress:             item.ProgressPercentage,
		ReceivedAt:           parseEventTime(item.ReceivedAt),
		UpdatedAt:            parseEventTime(item.UpdatedAt),
	}
	if ann.Status == "" {
		ann.Status = StatusReceived
	}
	if item.VideoURL != nil {
		ann.VideoURL = *item.VideoURL
	}
	if item.ErrorMessage != nil {
		ann.ErrorMessage = *item.ErrorMessage
	}
	s.current = ann
}

// Clear empties the slot.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns a copy of the held announcement, if any.
func (s *Store) Current() (Announcement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Announcement{}, false
	}
	return *s.current, true
}

// PresentationURL returns the playable media reference. It is non-empty only
// when the held announcement is completed and carries a video reference; the
// reference is normalized before use.
func (s *Store) PresentationURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.Status != StatusCompleted || s.current.VideoURL == "" {
		return ""
	}
	return normalizeMediaURL(s.mediaBase, s.current.VideoURL)
}

// normalizeMediaURL collapses the known doubled /api/v1 prefix, passes
// absolute URLs through unchanged and resolves path fragments against the
// configured media base host.
func normalizeMediaURL(base, ref string) string {
	ref = strings.ReplaceAll(ref, doubledPrefix, "/api/v1/")
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return base + ref
}

func parseEventTime(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}

func laterTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
