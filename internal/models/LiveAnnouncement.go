package models

import (
	"time"

	"gorm.io/gorm"
)

// Announcement status values. An announcement moves
// received -> processing -> generating_video -> completed, or ends in error.
const (
	StatusReceived        = "received"
	StatusProcessing      = "processing"
	StatusGeneratingVideo = "generating_video"
	StatusCompleted       = "completed"
	StatusError           = "error"
)

// LiveAnnouncement is the persisted record of the most recent announcement.
// Only one row is active at a time; creating a new announcement removes the
// previous one.
type LiveAnnouncement struct {
	gorm.Model

	AnnouncementID       string `json:"announcement_id" gorm:"uniqueIndex"`
	TrainNumber          string `json:"train_number"`
	TrainName            string `json:"train_name"`
	FromStation          string `json:"from_station"`
	ToStation            string `json:"to_station"`
	PlatformNumber       int    `json:"platform_number"`
	AnnouncementCategory string `json:"announcement_category"`
	AIAvatarModel        string `json:"ai_avatar_model"`

	Status             string    `json:"status"`
	Message            string    `json:"message"`
	ProgressPercentage *int      `json:"progress_percentage,omitempty"`
	VideoURL           *string   `json:"video_url,omitempty"`
	ErrorMessage       *string   `json:"error_message,omitempty"`
	ReceivedAt         time.Time `json:"received_at"`
	IsActive           bool      `json:"is_active" gorm:"index"`
}
