package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/presensia/presensia-backend/internal/config"
	"github.com/presensia/presensia-backend/internal/handler"
	"github.com/presensia/presensia-backend/internal/middleware"
	"github.com/presensia/presensia-backend/internal/response"
	"github.com/presensia/presensia-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Person  *handler.PersonHandler
	Session *handler.SessionHandler
	Stream  *handler.StreamHandler
	Monitor *handler.MonitorHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally. Streaming responses (MJPEG, SSE)
	// are skipped inside the middleware.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Auth group (public, rate limited).
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireOperatorJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireOperatorJWT(authService), handlers.Auth.Me)
	}

	// Public dashboard reads: the setup page lists schedules and the
	// attendance table polls without a login, matching kiosk deployments
	// where the display terminal carries no credentials.
	public := router.Group("/api/v1")
	{
		public.GET("/schedules", handlers.Session.ListSchedules)
		public.GET("/sessions/:id/attendance", handlers.Session.GetAttendance)
	}

	// Operator group (JWT + single device).
	operatorAPI := router.Group("/api/v1")
	operatorAPI.Use(
		middleware.RequireOperatorJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		operatorAPI.POST("/people", handlers.Person.Register)
		operatorAPI.GET("/people", handlers.Person.List)

		operatorAPI.POST("/schedules", handlers.Session.CreateSchedule)

		operatorAPI.POST("/sessions/:id/start", handlers.Session.StartSession)
		operatorAPI.POST("/sessions/:id/end", handlers.Session.EndSession)
		operatorAPI.GET("/sessions/:id", handlers.Session.GetSession)

		// MJPEG and SSE ride on <img>/EventSource tags, which cannot set
		// an Authorization header; the JWT middleware also accepts a
		// token query parameter for these.
		operatorAPI.GET("/sessions/:id/stream", handlers.Stream.Stream)
		operatorAPI.GET("/sessions/:id/monitor", handlers.Monitor.MonitorSSE)
	}

	// WebSocket group (operator WS auth via query token).
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireOperatorWSAuth(authService))
	{
		ws.GET("/sessions/:id/camera", handlers.WS.CameraIngest)
	}

	return router
}
