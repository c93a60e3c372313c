package routes

import (
	"github.com/gin-gonic/gin"

	"isl_signage/internal/controllers"
)

func TranslationRoutes(r *gin.Engine, tc *controllers.TranslationController) {
	translation := r.Group("/api/v1/translation")
	{
		translation.POST("/translate", tc.Translate)
		translation.GET("/supported-languages", tc.SupportedLanguages)
	}
}
