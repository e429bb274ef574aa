package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eld_logbook/internal/cache"
	"eld_logbook/internal/config"
	"eld_logbook/internal/controllers"
	"eld_logbook/internal/logger"
	"eld_logbook/internal/middleware"
	"eld_logbook/internal/routes"
)

func main() {
	settings := config.Load()

	// Initialize structured logging to file
	logger.Setup(settings.LogDir, settings.LogLevel)

	middleware.Configure(settings.JWTSecret, settings.AccessTTL, settings.RefreshTTL)

	// Connect to the database
	if err := config.InitDB(settings); err != nil {
		logrus.WithError(err).Fatal("database initialization failed")
	}

	if settings.RedisAddr != "" {
		rc, err := cache.NewRedis(settings.RedisAddr, 5)
		if err != nil {
			logrus.WithError(err).Warn("redis unavailable, trip cache disabled")
		} else {
			defer rc.Close()
			controllers.SetTripCache(rc)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := routes.SetupRouter(routes.Options{
		RequireAuth: settings.RequireAuth,
		CORSOrigins: settings.CORSOrigins,
		AccessLog:   logger.AccessWriter(settings.LogDir),
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running at :%s", settings.Port)
		logrus.WithField("port", settings.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("forced shutdown")
	}

	if sqlDB, err := config.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
