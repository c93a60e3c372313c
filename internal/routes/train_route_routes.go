package routes

import (
	"github.com/gin-gonic/gin"

	"isl_signage/internal/controllers"
	"isl_signage/internal/middleware"
)

func TrainRouteRoutes(r *gin.Engine, tc *controllers.TrainRouteController) {
	routes := r.Group("/api/v1/train-routes")
	{
		routes.GET("/list", tc.ListRoutes)
		routes.GET("/:id", tc.GetRoute)
		routes.GET("/:id/translations", tc.GetRouteTranslations)
	}

	// Provisioning and deletion change the route catalogue and need an
	// operator (or admin) token.
	protected := r.Group("/api/v1/train-routes")
	protected.Use(middleware.RequireAuthWithRole("operator", "admin"))
	{
		protected.POST("/provision", tc.Provision)
		protected.DELETE("/:id", tc.DeleteRoute)
	}
}
