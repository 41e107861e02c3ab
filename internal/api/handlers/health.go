package handlers

import (
	"context"
	"net/http"
	"time"

	"gps-monitor/internal/services"
	"gps-monitor/pkg/ratelimit"
	"gps-monitor/pkg/redis"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	service     *services.DashboardService
	redisClient *redis.Client
	limiter     ratelimit.RateLimiter
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

// NewHealthHandler creates the handler. redisClient may be nil when Redis is
// not configured.
func NewHealthHandler(service *services.DashboardService, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		service:     service,
		redisClient: redisClient,
	}
}

// SetRateLimiter adds limiter counters to the report.
func (h *HealthHandler) SetRateLimiter(limiter ratelimit.RateLimiter) {
	h.limiter = limiter
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Timestamp: time.Now(),
		Services:  make(map[string]interface{}),
	}

	overallHealthy := true
	for name, component := range h.service.Health(ctx) {
		response.Services[name] = component
		if component.Status != "healthy" {
			overallHealthy = false
		}
	}

	if h.redisClient != nil {
		redisStatus := h.checkRedis(ctx)
		response.Services["redis"] = redisStatus
		if !redisStatus["healthy"].(bool) {
			overallHealthy = false
		}
	}

	if h.limiter != nil {
		response.Services["rate_limiter"] = h.limiter.GetStats()
	}

	if overallHealthy {
		response.Status = "healthy"
		c.JSON(http.StatusOK, response)
	} else {
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) map[string]interface{} {
	healthStatus := h.redisClient.HealthCheck(ctx)
	status := map[string]interface{}{
		"service":         "redis",
		"healthy":         healthStatus.IsConnected,
		"connectionInfo":  healthStatus.ConnectionInfo,
		"responseTime":    healthStatus.ResponseTime.String(),
		"lastPing":        healthStatus.LastPing,
		"connectionStats": h.redisClient.GetConnectionStats(),
	}
	if healthStatus.Error != "" {
		status["error"] = healthStatus.Error
	}
	return status
}
