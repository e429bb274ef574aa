package routes

import (
	"eld_logbook/internal/controllers"
	"eld_logbook/internal/middleware"

	"github.com/gin-gonic/gin"
)

// DriverRoutes is the admin-only driver profile CRUD.
func DriverRoutes(r *gin.RouterGroup) {
	drivers := r.Group("/drivers")
	drivers.Use(middleware.RequireAdmin())
	{
		drivers.GET("/", controllers.ListDrivers)
		drivers.POST("/", controllers.CreateDriver)
		drivers.GET("/:id/", controllers.GetDriver)
		drivers.PUT("/:id/", controllers.UpdateDriver)
		drivers.PATCH("/:id/", controllers.PatchDriver)
		drivers.DELETE("/:id/", controllers.DeleteDriver)
	}
}
