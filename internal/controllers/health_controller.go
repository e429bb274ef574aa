package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eld_logbook/internal/config"
)

// Health reports whether the database answers a ping.
func Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := pingDB(ctx); err != nil {
		logrus.WithError(err).Warn("health check: database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}

func pingDB(ctx context.Context) error {
	sqlDB, err := config.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
