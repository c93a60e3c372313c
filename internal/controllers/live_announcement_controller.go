package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"isl_signage/internal/announce"
)

// LiveAnnouncementController exposes the live announcement lifecycle.
type LiveAnnouncementController struct {
	service *announce.Service
}

func NewLiveAnnouncementController(service *announce.Service) *LiveAnnouncementController {
	return &LiveAnnouncementController{service: service}
}

// Generate accepts a new announcement and queues it for processing.
// The caller gets the assigned id; progress flows over the status channel.
func (lc *LiveAnnouncementController) Generate(c *gin.Context) {
	var req announce.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Generate: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ann, err := lc.service.Add(req)
	if err != nil {
		logrus.WithError(err).Error("Generate: failed to create live announcement")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcement_id": ann.AnnouncementID,
		"status":          ann.Status,
		"message":         ann.Message,
		"received_at":     ann.ReceivedAt,
	})
}

// List returns the active announcements, newest first (0 or 1 in practice).
// This is the snapshot endpoint signboards use to resynchronize.
func (lc *LiveAnnouncementController) List(c *gin.Context) {
	anns, err := lc.service.List()
	if err != nil {
		logrus.WithError(err).Error("List: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list announcements: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, anns)
}

// GetStatus returns the state of one announcement.
func (lc *LiveAnnouncementController) GetStatus(c *gin.Context) {
	ann, err := lc.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get announcement: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcement_id":     ann.AnnouncementID,
		"status":              ann.Status,
		"message":             ann.Message,
		"progress_percentage": ann.ProgressPercentage,
		"video_url":           ann.VideoURL,
		"error_message":       ann.ErrorMessage,
		"updated_at":          ann.UpdatedAt,
	})
}

// Clear purges all live announcements.
func (lc *LiveAnnouncementController) Clear(c *gin.Context) {
	if err := lc.service.Clear(); err != nil {
		logrus.WithError(err).Error("Clear: failed to clear live announcements")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to clear announcements: " + err.Error()})
		return
	}

	logrus.Info("All live announcements cleared")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All live announcements cleared successfully",
	})
}
