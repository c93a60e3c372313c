package routes

import (
	"github.com/gin-gonic/gin"

	"isl_signage/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, wc *controllers.WebSocketController) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/announcements", wc.HandleAnnouncementSocket)
	}
}
