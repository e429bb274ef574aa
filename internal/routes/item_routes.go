package routes

import (
	"eld_logbook/internal/controllers"
	"eld_logbook/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ItemRoutes(r *gin.RouterGroup, requireAuth bool) {
	items := r.Group("/items")
	items.Use(middleware.AuthIf(requireAuth))
	{
		items.GET("/", controllers.ListItems)
		items.POST("/", controllers.CreateItem)
		items.GET("/:id/", controllers.GetItem)
		items.PUT("/:id/", controllers.UpdateItem)
		items.PATCH("/:id/", controllers.PatchItem)
		items.DELETE("/:id/", controllers.DeleteItem)
	}
}
