package routes

import (
	"github.com/gin-gonic/gin"

	"isl_signage/internal/controllers"
)

func VideoRoutes(r *gin.Engine, vc *controllers.VideoController) {
	video := r.Group("/api/v1/video-generation")
	{
		video.DELETE("/cleanup-temp-videos", vc.CleanupTempVideos)
	}
}
