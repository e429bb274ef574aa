package routes

import (
	"eld_logbook/internal/controllers"
	"eld_logbook/internal/middleware"

	"github.com/gin-gonic/gin"
)

func LogRoutes(r *gin.RouterGroup, requireAuth bool) {
	logs := r.Group("/logs")
	logs.Use(middleware.AuthIf(requireAuth))
	{
		logs.GET("/", controllers.ListLogs)
		logs.POST("/", controllers.CreateLog)
		logs.GET("/:id/", controllers.GetLog)
		logs.PUT("/:id/", controllers.UpdateLog)
		logs.PATCH("/:id/", controllers.PatchLog)
		logs.DELETE("/:id/", controllers.DeleteLog)
	}
}
