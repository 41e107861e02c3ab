package ratelimit

import (
	"time"
)

// Endpoint categories
const (
	CategoryPage        = "page"
	CategoryDashboard   = "dashboard"
	CategoryRefresh     = "refresh"
	CategoryUnits       = "units"
	CategoryExport      = "units_export"
	CategoryContact     = "unit_contact"
	CategoryAlerts      = "alerts"
	CategoryAcknowledge = "alerts_acknowledge"
	CategoryHealth      = "health"
	CategoryDefault     = "default"
)

// Config holds the configuration for rate limiting
type Config struct {
	// Limits per endpoint category
	DefaultLimits map[string]RateLimit `json:"defaultLimits"`

	// Endpoint ("METHOD:/route") to category
	Endpoints map[string]string `json:"endpoints"`

	RedisKeyPrefix  string        `json:"redisKeyPrefix"`
	CleanupInterval time.Duration `json:"cleanupInterval"`
	Enabled         bool          `json:"enabled"`
}

// DefaultConfig returns a default rate limiting configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultLimits: map[string]RateLimit{
			// Read endpoints polled by dashboards
			CategoryPage:      {RequestsPerMinute: 120, BurstSize: 30, WindowSize: time.Minute},
			CategoryDashboard: {RequestsPerMinute: 120, BurstSize: 30, WindowSize: time.Minute},
			CategoryUnits:     {RequestsPerMinute: 200, BurstSize: 50, WindowSize: time.Minute},
			CategoryAlerts:    {RequestsPerMinute: 200, BurstSize: 50, WindowSize: time.Minute},

			// Endpoints that hit the provider or the collaborator's store
			CategoryRefresh:     {RequestsPerMinute: 10, BurstSize: 3, WindowSize: time.Minute},
			CategoryExport:      {RequestsPerMinute: 20, BurstSize: 5, WindowSize: time.Minute},
			CategoryContact:     {RequestsPerMinute: 10, BurstSize: 3, WindowSize: time.Minute},
			CategoryAcknowledge: {RequestsPerMinute: 60, BurstSize: 10, WindowSize: time.Minute},

			CategoryHealth: {RequestsPerMinute: 1000, BurstSize: 100, WindowSize: time.Minute},

			CategoryDefault: {RequestsPerMinute: 60, BurstSize: 15, WindowSize: time.Minute},
		},
		Endpoints: map[string]string{
			"GET:/":         CategoryPage,
			"POST:/refresh": CategoryRefresh,

			"GET:/api/v1/dashboard":          CategoryDashboard,
			"POST:/api/v1/dashboard/refresh": CategoryRefresh,

			"GET:/api/v1/units":              CategoryUnits,
			"GET:/api/v1/units/:id":          CategoryUnits,
			"GET:/api/v1/units/export":       CategoryExport,
			"POST:/api/v1/units/:id/contact": CategoryContact,

			"GET:/api/v1/alerts":                  CategoryAlerts,
			"PATCH:/api/v1/alerts/:id/acknowledge": CategoryAcknowledge,

			"GET:/api/v1/health": CategoryHealth,
		},
		RedisKeyPrefix:  "ratelimit:",
		CleanupInterval: 5 * time.Minute,
		Enabled:         true,
	}
}

// Category maps an endpoint to its rate limit category.
func (c *Config) Category(endpoint string) string {
	if category, ok := c.Endpoints[endpoint]; ok {
		return category
	}
	return CategoryDefault
}

// Limit returns the category limit for endpoint.
func (c *Config) Limit(endpoint string) RateLimit {
	if limit, ok := c.DefaultLimits[c.Category(endpoint)]; ok {
		return limit
	}
	if limit, ok := c.DefaultLimits[CategoryDefault]; ok {
		return limit
	}
	return RateLimit{
		RequestsPerMinute: 60,
		BurstSize:         15,
		WindowSize:        time.Minute,
	}
}

// customLimits is the per-client override table shared by both limiters.
type customLimits map[string]map[string]RateLimit // clientID -> endpoint -> limit

func (c customLimits) lookup(clientID, endpoint string) (RateLimit, bool) {
	limit, ok := c[clientID][endpoint]
	return limit, ok
}

func (c customLimits) set(clientID, endpoint string, limit RateLimit) {
	if c[clientID] == nil {
		c[clientID] = make(map[string]RateLimit)
	}
	c[clientID][endpoint] = limit
}

func blockedRatio(stats RateLimiterStats) float64 {
	if stats.TotalRequests == 0 {
		return 0
	}
	return float64(stats.BlockedRequests) / float64(stats.TotalRequests)
}
