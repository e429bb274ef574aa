package routes

import (
	"eld_logbook/internal/controllers"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/records", controllers.HandleRecordWebSocket)
	}
}
