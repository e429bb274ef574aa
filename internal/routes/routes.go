package routes

import (
	"io"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eld_logbook/internal/controllers"
	"eld_logbook/internal/middleware"
)

// Options are the router settings taken from config.Settings.
type Options struct {
	// RequireAuth puts trip, log and item routes behind RequireAuth.
	RequireAuth bool
	CORSOrigins []string
	// AccessLog receives one JSON line per request. nil disables access logging.
	AccessLog io.Writer
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	if opts.AccessLog != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(opts.AccessLog),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/health"}),
			ginlog.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
				return l.With().Str("request_id", c.GetString(middleware.ContextRequestID)).Logger()
			}),
		))
	}
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.GET("/health", controllers.Health)

	api := r.Group("/api")
	AuthRoutes(api)
	TripRoutes(api, opts.RequireAuth)
	LogRoutes(api, opts.RequireAuth)
	ItemRoutes(api, opts.RequireAuth)
	DriverRoutes(api)
	WebSocketRoutes(r)

	return r
}
