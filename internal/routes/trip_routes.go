package routes

import (
	"eld_logbook/internal/controllers"
	"eld_logbook/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TripRoutes(r *gin.RouterGroup, requireAuth bool) {
	trips := r.Group("/trips")
	trips.Use(middleware.AuthIf(requireAuth))
	{
		trips.GET("/", controllers.ListTrips)
		trips.POST("/", controllers.CreateTrip)
		trips.GET("/:id/", controllers.GetTrip)
		trips.PUT("/:id/", controllers.UpdateTrip)
		trips.PATCH("/:id/", controllers.PatchTrip)
		trips.DELETE("/:id/", controllers.DeleteTrip)
		trips.GET("/:id/summary/", controllers.GetTripSummary)

		// Logs scoped to one trip
		trips.GET("/:id/logs/", controllers.ListTripLogs)
		trips.POST("/:id/logs/", controllers.CreateTripLog)
		trips.GET("/:id/logs/:log_id/", controllers.GetTripLog)
		trips.PUT("/:id/logs/:log_id/", controllers.UpdateTripLog)
		trips.PATCH("/:id/logs/:log_id/", controllers.PatchTripLog)
		trips.DELETE("/:id/logs/:log_id/", controllers.DeleteTripLog)
	}
}
