package routes

import (
	"eld_logbook/internal/controllers"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.RouterGroup) {
	r.POST("/register/", controllers.RegisterDriver)
	r.POST("/login/", controllers.LoginDriver)
	r.POST("/token/refresh/", controllers.RefreshToken)
}
