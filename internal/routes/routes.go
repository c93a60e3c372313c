package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"isl_signage/internal/controllers"
)

// Controllers bundles the handler sets the router wires up.
type Controllers struct {
	TrainRoutes   *controllers.TrainRouteController
	Announcements *controllers.LiveAnnouncementController
	Translations  *controllers.TranslationController
	Videos        *controllers.VideoController
	Socket        *controllers.WebSocketController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(ginlog.SetLogger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes
	AuthRoutes(r)
	TrainRouteRoutes(r, ctrl.TrainRoutes)
	LiveAnnouncementRoutes(r, ctrl.Announcements)
	TranslationRoutes(r, ctrl.Translations)
	VideoRoutes(r, ctrl.Videos)
	WebSocketRoutes(r, ctrl.Socket)

	return r
}
