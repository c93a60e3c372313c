package announce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"isl_signage/internal/hub"
	"isl_signage/internal/models"
)

// Request is the inbound payload for a new live announcement.
type Request struct {
	TrainNumber          string `json:"train_number" binding:"required"`
	TrainName            string `json:"train_name" binding:"required"`
	FromStation          string `json:"from_station" binding:"required"`
	ToStation            string `json:"to_station" binding:"required"`
	PlatformNumber       int    `json:"platform_number" binding:"required,min=1,max=20"`
	AnnouncementCategory string `json:"announcement_category" binding:"required"`
	AIAvatarModel        string `json:"ai_avatar_model" binding:"required,oneof=male female"`
}

// Notifier pushes announcement events into the status channel. Satisfied by
// *hub.Hub; tests substitute a recorder.
type Notifier interface {
	Broadcast(event string, data interface{})
}

// Service owns the live announcement lifecycle: it accepts requests, keeps
// exactly one active announcement, drives it through the processing states
// and mirrors every transition into the status channel.
type Service struct {
	db       *gorm.DB
	notifier Notifier
	renderer Renderer
	queue    chan string
}

// NewService creates the announcement service and starts its processing
// goroutine. The queue holds announcement ids; since a new announcement
// replaces the previous one, stale ids are skipped at processing time.
func NewService(db *gorm.DB, notifier Notifier, renderer Renderer) *Service {
	s := &Service{
		db:       db,
		notifier: notifier,
		renderer: renderer,
		queue:    make(chan string, 16),
	}
	go s.worker()
	return s
}

// Add registers a new live announcement, replacing any currently active one,
// and queues it for processing.
func (s *Service) Add(req Request) (*models.LiveAnnouncement, error) {
	// Only one announcement at a time: drop whatever is still active.
	if err := s.deactivateAll(); err != nil {
		return nil, err
	}

	ann := models.LiveAnnouncement{
		AnnouncementID:       uuid.NewString(),
		TrainNumber:          req.TrainNumber,
		TrainName:            req.TrainName,
		FromStation:          req.FromStation,
		ToStation:            req.ToStation,
		PlatformNumber:       req.PlatformNumber,
		AnnouncementCategory: req.AnnouncementCategory,
		AIAvatarModel:        req.AIAvatarModel,
		Status:               models.StatusReceived,
		Message:              "Announcement received and queued for processing",
		ReceivedAt:           time.Now().UTC(),
		IsActive:             true,
	}
	if err := s.db.Create(&ann).Error; err != nil {
		return nil, err
	}

	s.notifier.Broadcast(hub.EventReceived, receivedPayload(&ann))

	select {
	case s.queue <- ann.AnnouncementID:
	default:
		logrus.WithField("announcement_id", ann.AnnouncementID).Warn("Processing queue full, announcement will only be picked up after a restart.")
	}

	logrus.WithField("announcement_id", ann.AnnouncementID).Info("Live announcement queued")
	return &ann, nil
}

// List returns the active announcements, newest first. In practice the list
// holds zero or one element.
func (s *Service) List() ([]models.LiveAnnouncement, error) {
	var anns []models.LiveAnnouncement
	if err := s.db.Where("is_active = ?", true).Order("received_at desc").Find(&anns).Error; err != nil {
		return nil, err
	}
	return anns, nil
}

// Get returns one active announcement by its id.
func (s *Service) Get(announcementID string) (*models.LiveAnnouncement, error) {
	var ann models.LiveAnnouncement
	err := s.db.Where("announcement_id = ? AND is_active = ?", announcementID, true).First(&ann).Error
	if err != nil {
		return nil, err
	}
	return &ann, nil
}

// Clear removes all active announcements and drains the processing queue.
func (s *Service) Clear() error {
	if err := s.deactivateAll(); err != nil {
		return err
	}
	for {
		select {
		case <-s.queue:
		default:
			return nil
		}
	}
}

func (s *Service) deactivateAll() error {
	return s.db.Unscoped().Where("is_active = ?", true).Delete(&models.LiveAnnouncement{}).Error
}

func (s *Service) worker() {
	for id := range s.queue {
		s.process(id)
	}
}

// process drives one announcement through processing -> generating_video ->
// completed/error. Each transition is persisted before it is broadcast so a
// snapshot fetch always agrees with the pushed events.
func (s *Service) process(announcementID string) {
	ann, err := s.Get(announcementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Replaced or cleared while queued.
			logrus.WithField("announcement_id", announcementID).Debug("Skipping stale queued announcement")
			return
		}
		logrus.WithError(err).WithField("announcement_id", announcementID).Error("Failed to load queued announcement")
		return
	}

	if !s.updateStatus(announcementID, models.StatusProcessing, "Processing announcement...", intPtr(10), nil, nil) {
		return
	}
	if !s.updateStatus(announcementID, models.StatusGeneratingVideo, "Generating ISL video...", intPtr(50), nil, nil) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.renderer.Render(ctx, RenderRequest{
		TrainNumber:          ann.TrainNumber,
		TrainName:            ann.TrainName,
		FromStationName:      ann.FromStation,
		ToStationName:        ann.ToStation,
		Platform:             ann.PlatformNumber,
		AnnouncementCategory: ann.AnnouncementCategory,
		Model:                ann.AIAvatarModel,
	})

	switch {
	case err != nil:
		logrus.WithError(err).WithField("announcement_id", announcementID).Error("ISL video render failed")
		s.updateStatus(announcementID, models.StatusError, "Failed to generate ISL video", nil, nil, strPtr(err.Error()))
	case !result.Success || result.PreviewURL == "":
		errMsg := result.Error
		if errMsg == "" {
			errMsg = "Unknown error during ISL generation"
		}
		logrus.WithField("announcement_id", announcementID).WithField("error", errMsg).Error("ISL video render reported failure")
		s.updateStatus(announcementID, models.StatusError, "Failed to generate ISL video", nil, nil, strPtr(errMsg))
	default:
		s.updateStatus(announcementID, models.StatusCompleted, "ISL video generated successfully", intPtr(100), strPtr(result.PreviewURL), nil)
		logrus.WithField("announcement_id", announcementID).Info("Live announcement completed")
	}
}

// updateStatus persists a transition and broadcasts the matching update
// event. Returns false when the announcement no longer exists, which means
// it was replaced and processing should stop.
func (s *Service) updateStatus(announcementID, status, message string, progress *int, videoURL, errorMessage *string) bool {
	ann, err := s.Get(announcementID)
	if err != nil {
		logrus.WithField("announcement_id", announcementID).Warn("Announcement not found for status update")
		return false
	}

	ann.Status = status
	ann.Message = message
	if progress != nil {
		ann.ProgressPercentage = progress
	}
	if videoURL != nil {
		ann.VideoURL = videoURL
	}
	if errorMessage != nil {
		ann.ErrorMessage = errorMessage
	}

	if err := s.db.Save(ann).Error; err != nil {
		logrus.WithError(err).WithField("announcement_id", announcementID).Error("Failed to persist status update")
		return false
	}

	s.notifier.Broadcast(hub.EventUpdate, updatePayload(ann))
	if ann.Status == models.StatusError {
		s.notifier.Broadcast(hub.EventError, errorPayload(ann))
	}
	return true
}

func receivedPayload(ann *models.LiveAnnouncement) map[string]interface{} {
	return map[string]interface{}{
		"announcement_id":       ann.AnnouncementID,
		"train_number":          ann.TrainNumber,
		"train_name":            ann.TrainName,
		"from_station":          ann.FromStation,
		"to_station":            ann.ToStation,
		"platform_number":       ann.PlatformNumber,
		"announcement_category": ann.AnnouncementCategory,
		"ai_avatar_model":       ann.AIAvatarModel,
		"status":                ann.Status,
		"message":               ann.Message,
		"received_at":           ann.ReceivedAt.Format(time.RFC3339),
	}
}

func updatePayload(ann *models.LiveAnnouncement) map[string]interface{} {
	payload := map[string]interface{}{
		"announcement_id": ann.AnnouncementID,
		"status":          ann.Status,
		"message":         ann.Message,
		"updated_at":      ann.UpdatedAt.Format(time.RFC3339),
	}
	if ann.ProgressPercentage != nil {
		payload["progress_percentage"] = *ann.ProgressPercentage
	}
	if ann.VideoURL != nil {
		payload["video_url"] = *ann.VideoURL
	}
	if ann.ErrorMessage != nil {
		payload["error_message"] = *ann.ErrorMessage
	}
	return payload
}

func errorPayload(ann *models.LiveAnnouncement) map[string]interface{} {
	payload := map[string]interface{}{
		"announcement_id": ann.AnnouncementID,
	}
	if ann.ErrorMessage != nil {
		payload["error_message"] = *ann.ErrorMessage
	}
	return payload
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
