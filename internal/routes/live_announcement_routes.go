package routes

import (
	"github.com/gin-gonic/gin"

	"isl_signage/internal/controllers"
	"isl_signage/internal/middleware"
)

func LiveAnnouncementRoutes(r *gin.Engine, lc *controllers.LiveAnnouncementController) {
	announcements := r.Group("/api/v1/live-announcements")
	{
		announcements.GET("/list", lc.List)
		announcements.GET("/status/:id", lc.GetStatus)
		// Signboards clear on their own schedule and run without operator
		// tokens, so clear stays open like the reads.
		announcements.DELETE("/clear", lc.Clear)
	}

	protected := r.Group("/api/v1/live-announcements")
	protected.Use(middleware.RequireAuthWithRole("operator", "admin"))
	{
		protected.POST("/generate", lc.Generate)
	}
}
