package routes

import (
	"fmt"
	"time"

	"gps-monitor/internal/api/handlers"
	"gps-monitor/internal/api/middleware"
	"gps-monitor/internal/services"
	"gps-monitor/internal/web"
	"gps-monitor/internal/websocket"
	"gps-monitor/pkg/ratelimit"
	"gps-monitor/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the components the HTTP surface is built on. Limiter and
// Redis may be nil.
type Dependencies struct {
	Service        *services.DashboardService
	Hub            *websocket.Hub
	Limiter        ratelimit.RateLimiter
	Redis          *redis.Client
	AllowedOrigins []string
	AutoRefresh    time.Duration
}

// NewRouter builds the gin engine with middleware, templates and routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logging(), middleware.Metrics())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))
	if deps.Limiter != nil {
		router.Use(middleware.RateLimitMiddleware(deps.Limiter))
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	SetupRoutes(router, deps)
	return router, nil
}

func corsConfig(allowedOrigins []string) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-API-Key", "X-Request-ID", "Upgrade", "Connection", "Sec-WebSocket-Key", "Sec-WebSocket-Version", "Sec-WebSocket-Protocol"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "Retry-After", "X-Request-ID"},
	}

	// Handle wildcard origin for development
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false // Cannot use credentials with AllowAllOrigins
	} else {
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	}
	return corsConfig
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	dashboardHandler := handlers.NewDashboardHandler(deps.Service)
	unitHandler := handlers.NewUnitHandler(deps.Service)
	alertHandler := handlers.NewAlertHandler(deps.Service)
	healthHandler := handlers.NewHealthHandler(deps.Service, deps.Redis)
	if deps.Limiter != nil {
		healthHandler.SetRateLimiter(deps.Limiter)
	}
	pageHandler := handlers.NewPageHandler(deps.Service, deps.AutoRefresh)

	// HTML dashboard
	router.GET("/", pageHandler.Show)
	router.POST("/refresh", pageHandler.Refresh)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/health", healthHandler.HealthCheck)

		api.GET("/dashboard", dashboardHandler.GetDashboard)
		api.POST("/dashboard/refresh", dashboardHandler.Refresh)

		units := api.Group("/units")
		{
			units.GET("", unitHandler.GetUnits)
			units.GET("/export", unitHandler.ExportUnits)
			units.GET("/:id", unitHandler.GetUnit)
			units.POST("/:id/contact", unitHandler.ContactDriver)
		}

		alerts := api.Group("/alerts")
		{
			alerts.GET("", alertHandler.GetAlerts)
			alerts.PATCH("/:id/acknowledge", alertHandler.AcknowledgeAlert)
		}

		if deps.Hub != nil {
			wsHandler := handlers.NewWebSocketHandler(deps.Hub)
			api.GET("/ws", wsHandler.HandleWebSocket)
			api.GET("/ws/clients", wsHandler.GetConnectedClients)
		}
	}
}
