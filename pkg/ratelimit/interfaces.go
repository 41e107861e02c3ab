package ratelimit

import (
	"context"
	"time"
)

// RateLimiter decides whether a client may call an endpoint. The endpoint is
// "METHOD:/route/template", e.g. "GET:/api/v1/units/:id".
type RateLimiter interface {
	Allow(ctx context.Context, clientID, endpoint string) (allowed bool, retryAfter time.Duration, err error)
	LimitFor(clientID, endpoint string) RateLimit
	SetCustomLimit(ctx context.Context, clientID, endpoint string, limit RateLimit) error
	GetStats() RateLimiterStats
	Close() error
}

// RateLimit defines the configuration for rate limiting
type RateLimit struct {
	RequestsPerMinute int           `json:"requestsPerMinute"`
	BurstSize         int           `json:"burstSize"`
	WindowSize        time.Duration `json:"windowSize"`
}

// RateLimiterStats provides statistics about rate limiting
type RateLimiterStats struct {
	TotalRequests   int64   `json:"totalRequests"`
	BlockedRequests int64   `json:"blockedRequests"`
	BlockedRatio    float64 `json:"blockedRatio"`
	ActiveClients   int     `json:"activeClients"`
}

// TokenBucket is the per client/endpoint state of the memory limiter.
type TokenBucket struct {
	Capacity   float64   `json:"capacity"`
	Tokens     float64   `json:"tokens"`
	RefillRate float64   `json:"refillRate"` // tokens per second
	LastRefill time.Time `json:"lastRefill"`
}
