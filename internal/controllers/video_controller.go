package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"isl_signage/internal/announce"
)

// VideoController proxies maintenance calls to the rendering pipeline.
type VideoController struct {
	renderer announce.Renderer
}

func NewVideoController(renderer announce.Renderer) *VideoController {
	return &VideoController{renderer: renderer}
}

// CleanupTempVideos asks the rendering pipeline to delete its temporary
// preview files. Signboards call this after a clear so stale previews do
// not accumulate on the render host.
func (vc *VideoController) CleanupTempVideos(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := vc.renderer.CleanupTempVideos(ctx); err != nil {
		logrus.WithError(err).Error("Temp video cleanup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to clean up temp videos: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Temporary videos cleaned up",
	})
}
